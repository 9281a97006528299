package entity

import "time"

// Client representa a una persona atendida por la gestoría.
type Client struct {
	ID             string
	FirstName      string // nombre
	LastName       string // apellidos
	Email          string
	Phone          string
	Nationality    string
	DocumentNumber string     // NIE o pasaporte
	DocumentExpiry *time.Time // vencimiento del NIE
	BirthDate      *time.Time
	Street         string
	StreetNumber   string
	Floor          string
	Door           string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName devuelve "nombre apellidos".
func (c *Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
