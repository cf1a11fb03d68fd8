// Package whatsapp builds the chat links that delegate ordering and contact
// to WhatsApp. No API calls are made; checkout is entirely a deep link.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// CleanPhone strips everything but digits from a loosely-formatted
// international phone number.
func CleanPhone(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ChatURL returns the wa.me link for a phone number with an optional
// pre-filled message. wa.me works on both desktop and mobile web.
func ChatURL(phone, message string) string {
	u := "https://wa.me/" + CleanPhone(phone)
	if message != "" {
		u += "?text=" + url.QueryEscape(message)
	}
	return u
}

// AppURL returns the whatsapp:// deep link that opens the native app.
func AppURL(phone, message string) string {
	u := "whatsapp://send?phone=" + CleanPhone(phone)
	if message != "" {
		u += "&text=" + url.QueryEscape(message)
	}
	return u
}

// OrderMessage is the pre-filled text a buyer sends when ordering a product.
func OrderMessage(title string, price float64) string {
	return fmt.Sprintf("Hi! I'm interested in ordering %s for $%.2f. Can you provide more details?", title, price)
}
