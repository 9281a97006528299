package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestoria-api/internal/application/billing"
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/finance"
	"github.com/jhoicas/gestoria-api/internal/infrastructure/pdf"
)

func TestFormatEuro(t *testing.T) {
	cases := map[string]string{
		"0":       "0,00 €",
		"150":     "150,00 €",
		"1234.5":  "1.234,50 €",
		"1000000": "1.000.000,00 €",
		"-50":     "-50,00 €",
		"299.999": "300,00 €",
		"-0.001":  "0,00 €",
	}
	for in, want := range cases {
		assert.Equal(t, want, pdf.FormatEuro(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateReceiptPDF(t *testing.T) {
	paidOn := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	r := &billing.Receipt{
		Number:   "26/014/1a2b3c4d",
		IssuedAt: paidOn,
		Agency:   entity.AgencySettings{Name: "Gestoría Extranjería Sur", City: "Sevilla", Phone: "954000000"},
		Client:   &entity.Client{FirstName: "Amina", LastName: "El Idrissi", DocumentNumber: "X1234567L"},
		CaseFile: &entity.CaseFileView{
			CaseFile:    entity.CaseFile{Number: "26/014", StartDate: paidOn.AddDate(0, -1, 0)},
			TramiteName: "Arraigo social",
		},
		Payment: &entity.Payment{Amount: decimal.NewFromInt(150), PaidOn: paidOn, Method: entity.PaymentBizum},
		Totals:  finance.FromPaid(decimal.NewFromInt(500), decimal.NewFromInt(350)),
	}

	out, err := pdf.NewReceiptGenerator().GenerateReceiptPDF(context.Background(), r)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceiptPDF_Incompleto(t *testing.T) {
	_, err := pdf.NewReceiptGenerator().GenerateReceiptPDF(context.Background(), &billing.Receipt{})
	assert.Error(t, err)
}
