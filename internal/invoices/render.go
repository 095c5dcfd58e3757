package invoices

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// invoiceContentType is stored alongside the rendered bytes so the download
// path never has to guess.
const invoiceContentType = "text/html; charset=utf-8"

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Invoice {{.Number}}</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; color: #1a1a1a; }
    h1 { font-size: 1.4rem; }
    table { border-collapse: collapse; margin-top: 1rem; }
    td, th { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
    .total { font-weight: bold; }
    .letterhead { color: #555; font-size: 0.9rem; }
  </style>
</head>
<body>
  <h1>{{.BusinessName}}</h1>
  {{if .BusinessAddress}}<p class="letterhead">{{.BusinessAddress}}</p>{{end}}
  <p>Invoice <strong>{{.Number}}</strong> &mdash; issued {{.IssuedOn}}</p>
  <table>
    <tr><th>Member</th><td>{{.MemberName}}</td></tr>
    <tr><th>Plan</th><td>{{.PlanName}}</td></tr>
    <tr><th>Period</th><td>{{.PeriodStart}} to {{.PeriodEnd}}</td></tr>
    <tr class="total"><th>Amount paid</th><td>{{.Amount}}</td></tr>
  </table>
  <p class="letterhead">Payment received in full. Thank you.</p>
</body>
</html>
`))

type renderInput struct {
	BusinessName    string
	BusinessAddress string
	Number          string
	MemberName      string
	PlanName        string
	PeriodStart     string
	PeriodEnd       string
	Amount          string
	IssuedOn        string
}

func renderInvoice(input renderInput) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, input); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", input.Number, err)
	}
	return buf.Bytes(), nil
}

// formatAmount renders cents as currency units, e.g. "USD 150.00".
func formatAmount(cents int64, currencyCode string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", currencyCode, sign, cents/100, cents%100)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
