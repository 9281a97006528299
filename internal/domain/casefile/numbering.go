// Package casefile contiene las reglas puras del expediente: numeración y ciclo de vida.
package casefile

import (
	"fmt"
	"strconv"
	"strings"
)

// YearPrefix devuelve el prefijo "YY/" del año indicado.
func YearPrefix(year int) string {
	return fmt.Sprintf("%02d/", year%100)
}

// FormatNumber construye el número de expediente "YY/NNN".
// NNN se rellena con ceros hasta 3 dígitos y crece sin truncar a partir de 999.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%s%03d", YearPrefix(year), seq)
}

// ParseNumber separa un número "YY/NNN" en año (dos dígitos) y correlativo.
func ParseNumber(number string) (yy, seq int, ok bool) {
	head, tail, found := strings.Cut(number, "/")
	if !found || len(head) != 2 || tail == "" {
		return 0, 0, false
	}
	yy, err := strconv.Atoi(head)
	if err != nil || yy < 0 {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(tail)
	if err != nil || seq < 0 {
		return 0, 0, false
	}
	return yy, seq, true
}

// NextSequence calcula el siguiente correlativo para el año: máximo existente + 1, o 1 si no hay ninguno.
// Los números con otro prefijo o mal formados se ignoran.
func NextSequence(existing []string, year int) int {
	yy := year % 100
	maxSeq := 0
	for _, n := range existing {
		y, seq, ok := ParseNumber(n)
		if !ok || y != yy {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}
