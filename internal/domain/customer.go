package domain

import (
	"github.com/google/uuid"
)

type Customer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:140;not null" json:"name"`
	Email        string    `gorm:"size:140" json:"email,omitempty"`
	CpfCnpj      string    `gorm:"size:30" json:"cpf_cnpj,omitempty"`
	RgIe         string    `gorm:"size:30" json:"rg_ie,omitempty"`
	Address      string    `gorm:"size:255" json:"address,omitempty"`
	Neighborhood string    `gorm:"size:140" json:"neighborhood,omitempty"`
	City         string    `gorm:"size:140" json:"city,omitempty"`
	State        string    `gorm:"size:60" json:"state,omitempty"`
	Phone        string    `gorm:"size:60" json:"phone,omitempty"`
	Cep          string    `gorm:"size:20" json:"cep,omitempty"`
}

// CustomerForm is the customer payload of an order creation. When ID resolves
// to an existing customer the record is connected as-is, otherwise a new
// customer is created from the remaining fields.
type CustomerForm struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	CpfCnpj      string `json:"cpf_cnpj,omitempty"`
	RgIe         string `json:"rg_ie,omitempty"`
	Address      string `json:"address,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Cep          string `json:"cep,omitempty"`
}

// CustomerPatch carries scalar customer fields of a partial order update.
// Nil fields are left untouched on the existing record.
type CustomerPatch struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	CpfCnpj      *string `json:"cpf_cnpj,omitempty"`
	RgIe         *string `json:"rg_ie,omitempty"`
	Address      *string `json:"address,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Cep          *string `json:"cep,omitempty"`
}

// Apply merges the non-nil patch fields into c.
func (p *CustomerPatch) Apply(c *Customer) {
	if p == nil {
		return
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.CpfCnpj != nil {
		c.CpfCnpj = *p.CpfCnpj
	}
	if p.RgIe != nil {
		c.RgIe = *p.RgIe
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Neighborhood != nil {
		c.Neighborhood = *p.Neighborhood
	}
	if p.City != nil {
		c.City = *p.City
	}
	if p.State != nil {
		c.State = *p.State
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Cep != nil {
		c.Cep = *p.Cep
	}
}
