package format

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// ContactMessage is the prefilled WhatsApp message sent from a listing card.
func ContactMessage(rental bool, brand, model string, year int, price int64) string {
	action := "acheter"
	if rental {
		action = "louer"
	}
	return fmt.Sprintf("Bonjour, je souhaite %s votre %s %s %d à %s sur CARSTOK.",
		action, brand, model, year, FormatPrice(price))
}

// WhatsAppURL builds a wa.me deep link. Non-digit characters are dropped from phone.
func WhatsAppURL(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if text == "" {
		return "https://wa.me/" + digits
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}
