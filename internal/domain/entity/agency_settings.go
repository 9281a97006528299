package entity

import "time"

// DefaultNumberingFormat formato informativo de numeración de expedientes.
const DefaultNumberingFormat = "YY/XXX"

// AgencySettings datos de la gestoría (fila única), usados en la cabecera del recibo.
type AgencySettings struct {
	Name            string
	LogoURL         string
	Phone           string
	Email           string
	Address         string
	City            string
	PostalCode      string
	NumberingFormat string
	UpdatedAt       time.Time
}
