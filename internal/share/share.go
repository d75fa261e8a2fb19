// Package share composes the outbound item message and its messaging deep
// link. Opening the link is the caller's responsibility.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ludmilasolutions/productos/internal/models"
)

const waBaseURL = "https://wa.me/"

// Message returns the precomposed text for an item: description, code, and
// formatted price.
func Message(item *models.Item) string {
	return fmt.Sprintf("Hola! Quiero consultar por: %s (cod. %s) - %s",
		item.Description, item.Code, FormatPrice(item.Price))
}

// Link returns the wa.me deep link carrying the item message. phone is the
// destination in international format; non-digits are stripped.
func Link(phone string, item *models.Item) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return waBaseURL + digits + "?text=" + url.QueryEscape(Message(item))
}

// FormatPrice renders price as "$1.234,56" (thousands dot, decimal comma).
func FormatPrice(price float64) string {
	s := fmt.Sprintf("%.2f", price)
	parts := strings.SplitN(s, ".", 2)
	whole, frac := parts[0], parts[1]

	var b strings.Builder
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return "$" + b.String() + "," + frac
}
