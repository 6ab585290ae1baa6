package domain

import "errors"

var (
	ErrNotFound           = errors.New("no encontrado")
	ErrInvalidPrice       = errors.New("precio unitario negativo")
	ErrAttachmentMismatch = errors.New("archivos y metadatos con longitudes distintas")
	ErrDuplicateNumber    = errors.New("número de pedido en uso")
)
