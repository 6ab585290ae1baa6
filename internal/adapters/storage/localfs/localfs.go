// Package localfs stores uploaded binaries on disk under a base directory and
// hands back URLs served from the /uploads/ mount.
package localfs

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type Storage struct {
	base string
}

func New(base string) *Storage { return &Storage{base: base} }

// Save writes data under namespace and returns the retrieval URL. The URL is
// stable: saving the same name in the same namespace overwrites in place.
func (s *Storage) Save(ctx context.Context, namespace, name string, data []byte) (string, error) {
	ns := cleanSegment(namespace)
	file := cleanName(name)
	if file == "" {
		return "", fmt.Errorf("nombre de archivo vacío")
	}

	dir := filepath.Join(s.base, filepath.FromSlash(ns))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, file), data, 0o644); err != nil {
		return "", err
	}
	return path.Join("/uploads", ns, file), nil
}

// cleanSegment keeps namespaces inside the base directory.
func cleanSegment(s string) string {
	parts := strings.Split(s, "/")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "." || p == ".." {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "/")
}

func cleanName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.ReplaceAll(name, " ", "_")
}
