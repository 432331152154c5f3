package entity

import "time"

// Client representa un cliente al que se le vende.
type Client struct {
	ID        string
	Name      string
	Document  string // CPF/CNPJ, único si existe
	Email     string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
