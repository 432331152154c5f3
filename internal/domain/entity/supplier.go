package entity

import "time"

// Supplier representa un proveedor. Name es único; Email y TaxID son únicos si existen.
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	Email     string
	TaxID     string // CNPJ/NIT
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
