package domain

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a monthly rent in Tanzanian shillings, e.g. "TSh 450,000".
func FormatPrice(price int64) string {
	return pricePrinter.Sprintf("TSh %d", price)
}

// ShortPrice renders the compact map-marker form: "450K", "1.2M".
func ShortPrice(price int64) string {
	if price >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(price)/1_000_000)
	}
	return fmt.Sprintf("%.0fK", float64(price)/1_000)
}
