package orders

import (
	"strings"
	"unicode"

	"eskimo_admin/internal/session"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	StatusPending   = "pendente"
	StatusPaid      = "pago"
	StatusDelivered = "entregue"
	StatusCanceled  = "cancelado"

	MethodMercadoPago = "mercado_pago"
)

var Statuses = []string{StatusPending, StatusPaid, StatusDelivered, StatusCanceled}

func IsStatus(s string) bool {
	for _, status := range Statuses {
		if status == s {
			return true
		}
	}
	return false
}

func lower(s string) string {
	return cases.Lower(language.BrazilianPortuguese).String(strings.TrimSpace(s))
}

// fold lowercases and drops diacritics, so "Passo Fundo" and "PASSO" and
// "pássô" all compare alike.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, lower(s))
	if err != nil {
		return lower(s)
	}
	return out
}

// NormalizeStore maps the store labels the backend uses onto store keys.
// Unknown labels come back lowercased.
func NormalizeStore(label string) string {
	folded := fold(label)
	switch {
	case strings.Contains(folded, session.StorePasso):
		return session.StorePasso
	case strings.Contains(folded, session.StoreEfapi):
		return session.StoreEfapi
	case strings.Contains(folded, session.StorePalmital):
		return session.StorePalmital
	default:
		return lower(label)
	}
}

func NormalizeStatus(status string) string {
	return fold(status)
}

func NormalizePaymentMethod(method string) string {
	folded := fold(method)
	folded = strings.NewReplacer(" ", "_", "-", "_").Replace(folded)
	if folded == "mercadopago" {
		return MethodMercadoPago
	}
	return folded
}
