package review

import (
	"net/url"
	"strings"

	"github.com/dvloznov/budget-tracker/internal/domain"
)

// QR image defaults used when rendering the payment link.
const (
	qrEndpoint = "https://api.qrserver.com/v1/create-qr-code/"
	qrSize     = "150x150"
	qrColor    = "4f46e5"
)

// Payee identifies who friends pay back through the generated link.
type Payee struct {
	Address  string // UPI virtual payment address, e.g. user@upi
	Name     string
	Currency string
}

// DefaultPayee is used when the caller configures none.
var DefaultPayee = Payee{
	Address:  "user@upi",
	Name:     "Val U Tracker",
	Currency: domain.DefaultCurrency,
}

// PaymentURI builds the UPI deep link asking for one person's share. Every
// dynamic field is percent-encoded.
func PaymentURI(p Payee, perPerson float64, merchant string) string {
	currency := p.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	params := []struct{ key, value string }{
		{"pa", p.Address},
		{"pn", p.Name},
		{"am", domain.FormatAmount(perPerson)},
		{"cu", currency},
		{"tn", "Split " + strings.TrimSpace(merchant)},
	}

	var b strings.Builder
	b.WriteString("upi://pay?")
	for i, kv := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(kv.key)
		b.WriteByte('=')
		b.WriteString(encodeComponent(kv.value))
	}
	return b.String()
}

// QRImageURL returns the URL of a QR code image encoding uri.
func QRImageURL(uri string) string {
	v := url.Values{}
	v.Set("size", qrSize)
	v.Set("data", uri)
	v.Set("color", qrColor)
	return qrEndpoint + "?" + v.Encode()
}

// encodeComponent percent-encodes s for use as a query value, with spaces as
// %20 rather than '+', which UPI apps do not all decode.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
