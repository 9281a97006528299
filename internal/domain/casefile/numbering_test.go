package casefile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestoria-api/internal/domain/casefile"
)

func TestFormatNumber_RellenaTresDigitos(t *testing.T) {
	assert.Equal(t, "26/001", casefile.FormatNumber(2026, 1))
	assert.Equal(t, "26/042", casefile.FormatNumber(2026, 42))
	assert.Equal(t, "26/999", casefile.FormatNumber(2026, 999))
	assert.Equal(t, "05/007", casefile.FormatNumber(2005, 7))
}

// Por encima de 999 el correlativo crece sin truncar.
func TestFormatNumber_SinTruncarDesde1000(t *testing.T) {
	assert.Equal(t, "26/1000", casefile.FormatNumber(2026, 1000))
	assert.Equal(t, "26/12345", casefile.FormatNumber(2026, 12345))
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in      string
		yy, seq int
		ok      bool
	}{
		{"26/001", 26, 1, true},
		{"26/1000", 26, 1000, true},
		{"05/010", 5, 10, true},
		{"2026/001", 0, 0, false},
		{"26-001", 0, 0, false},
		{"26/", 0, 0, false},
		{"26/abc", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			yy, seq, ok := casefile.ParseNumber(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.yy, yy)
			assert.Equal(t, tc.seq, seq)
		})
	}
}

func TestNextSequence_SinExistentesEmpiezaEnUno(t *testing.T) {
	assert.Equal(t, 1, casefile.NextSequence(nil, 2026))
	// Números de otros años no cuentan: el contador reinicia cada año.
	assert.Equal(t, 1, casefile.NextSequence([]string{"25/001", "25/120"}, 2026))
}

func TestNextSequence_MaximoMasUno(t *testing.T) {
	existing := []string{"26/001", "26/010", "26/003", "25/500", "basura"}
	assert.Equal(t, 11, casefile.NextSequence(existing, 2026))
}

// La comparación es numérica: "26/1000" es mayor que "26/999" aunque lexicográficamente no lo sea.
func TestNextSequence_ComparacionNumerica(t *testing.T) {
	existing := []string{"26/999", "26/1000", "26/998"}
	assert.Equal(t, 1001, casefile.NextSequence(existing, 2026))
}

// Propiedad: para cualquier conjunto de correlativos del año, el siguiente es max+1.
func TestNextSequence_PropiedadMaxMasUno(t *testing.T) {
	for n := 1; n <= 50; n++ {
		var existing []string
		maxSeq := 0
		for i := 1; i <= n; i++ {
			seq := (i * 37) % 1200
			if seq > maxSeq {
				maxSeq = seq
			}
			existing = append(existing, casefile.FormatNumber(2031, seq))
		}
		next := casefile.NextSequence(existing, 2031)
		assert.Equal(t, maxSeq+1, next)
		assert.NotContains(t, existing, casefile.FormatNumber(2031, next))
	}
}
