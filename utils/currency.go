package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var nairaPrinter = message.NewPrinter(language.English)

// FormatNaira renders a whole-Naira amount with thousands separators, e.g. ₦10,000.
func FormatNaira(amount int64) string {
	if amount < 0 {
		return nairaPrinter.Sprintf("-₦%d", -amount)
	}
	return nairaPrinter.Sprintf("₦%d", amount)
}
