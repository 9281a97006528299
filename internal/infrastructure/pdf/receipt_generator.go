// Package pdf genera el recibo de pago en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Gestoría + contacto │  RECIBO DE PAGO Nº + fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / NIE / Email / Teléfono                    │
//	│  EXPEDIENTE: Nº / Trámite / Fecha de inicio                  │
//	│  PAGO: Fecha / Concepto / Método                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Acordado / Anterior / ESTE PAGO / Pagado / Pend.   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/gestoria-api/internal/application/billing"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorDark    = &props.Color{Red: 51, Green: 51, Blue: 51}
	colorGray    = &props.Color{Red: 102, Green: 102, Blue: 102}
)

var _ billing.ReceiptPDFGenerator = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa billing.ReceiptPDFGenerator usando Maroto v2.
type ReceiptGenerator struct {
	title cases.Caser
}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator {
	return &ReceiptGenerator{title: cases.Title(language.Spanish)}
}

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceiptPDF(_ context.Context, r *billing.Receipt) ([]byte, error) {
	if r == nil || r.Payment == nil || r.CaseFile == nil || r.Client == nil {
		return nil, fmt.Errorf("pdf: recibo incompleto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Recibo de pago "+r.Number, true).
		WithAuthor(nonEmpty(r.Agency.Name, "Gestoría"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(2, props.Line{Color: colorDark, Thickness: 0.6}))

	m.AddRows(sectionRows("Datos del cliente", [][2]string{
		{"Nombre completo", clientName(r)},
		{"NIE/Pasaporte", r.Client.DocumentNumber},
		{"Email", nonEmpty(r.Client.Email, "-")},
		{"Teléfono", nonEmpty(r.Client.Phone, "-")},
	})...)
	m.AddRows(sectionRows("Datos del expediente", [][2]string{
		{"Nº Expediente", r.CaseFile.Number},
		{"Tipo de trámite", nonEmpty(r.CaseFile.TramiteName, "-")},
		{"Fecha de inicio", formatDate(r.CaseFile.StartDate)},
	})...)
	m.AddRows(sectionRows("Detalles del pago", [][2]string{
		{"Fecha de pago", formatDate(r.Payment.PaidOn)},
		{"Concepto", nonEmpty(r.Payment.Concept, "-")},
		{"Método de pago", g.methodLabel(string(r.Payment.Method))},
	})...)

	m.AddRows(line.NewRow(4))
	m.AddRows(totalsRows(r)...)

	m.AddRows(line.NewRow(8))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: gestoría y contacto (izq), número de recibo y fecha de emisión (der).
func headerRow(r *billing.Receipt) core.Row {
	contact := strings.Join(nonBlank(r.Agency.Phone, r.Agency.Email), "   |   ")
	address := strings.Join(nonBlank(r.Agency.Address, strings.TrimSpace(r.Agency.PostalCode+" "+r.Agency.City)), ", ")

	return row.New(22).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.Agency.Name, "Gestoría"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorDark, Top: 1,
			}),
			text.New(address, props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New(contact, props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RECIBO DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorDark, Top: 1,
			}),
			text.New("Recibo Nº "+r.Number, props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New("Fecha de emisión: "+formatDate(r.IssuedAt), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// sectionRows: título y pares etiqueta/valor.
func sectionRows(title string, pairs [][2]string) []core.Row {
	rows := []core.Row{
		row.New(10).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 11, Color: colorDark, Top: 4,
		}))),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}),
	}
	for _, p := range pairs {
		rows = append(rows, row.New(7).Add(
			col.New(4).Add(text.New(p[0]+":", props.Text{Style: fontstyle.Bold, Size: 9, Color: colorGray, Top: 1.5})),
			col.New(8).Add(text.New(p[1], props.Text{Size: 9, Top: 1.5})),
		))
	}
	return rows
}

// totalsRows: acordado, pagado antes de este pago, este pago (destacado), total pagado y pendiente.
func totalsRows(r *billing.Receipt) []core.Row {
	this := r.Payment.Amount
	previous := r.Totals.Paid.Sub(this)

	totalRow := func(label, value string, highlight bool) core.Row {
		style := props.Text{Size: 10, Top: 1.5, Color: colorDark}
		if highlight {
			style = props.Text{Style: fontstyle.Bold, Size: 12, Top: 1.5, Color: colorPrimary}
		}
		valueStyle := style
		valueStyle.Align = align.Right
		return row.New(8).Add(
			col.New(2),
			col.New(5).Add(text.New(label, style)),
			col.New(3).Add(text.New(value, valueStyle)),
			col.New(2),
		)
	}
	return []core.Row{
		totalRow("Precio acordado:", FormatEuro(r.Totals.Agreed), false),
		totalRow("Total pagado anteriormente:", FormatEuro(previous), false),
		totalRow("Este pago:", FormatEuro(this), true),
		totalRow("Total pagado:", FormatEuro(r.Totals.Paid), false),
		totalRow("Pendiente:", FormatEuro(r.Totals.Pending), false),
	}
}

func footerRow() core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("Este documento es un recibo de pago generado automáticamente.", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 3,
		}),
		text.New("Para cualquier consulta, por favor contacte con nuestra gestoría.", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 8,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// clientName "apellidos, nombre".
func clientName(r *billing.Receipt) string {
	if r.Client.LastName == "" {
		return r.Client.FirstName
	}
	return r.Client.LastName + ", " + r.Client.FirstName
}

func (g *ReceiptGenerator) methodLabel(method string) string {
	if method == "" {
		return "-"
	}
	return g.title.String(method)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// formatDate ej: "15 de marzo de 2026".
func formatDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// FormatEuro formato español con dos decimales. Ej: 1234.5 → "1.234,50 €", -50 → "-50,00 €".
func FormatEuro(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + formatThousands(intPart) + "," + frac + " €"
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
