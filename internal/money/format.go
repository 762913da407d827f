package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts for display with locale-aware digit grouping.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a Formatter for the given locale and currency symbol.
func NewFormatter(tag language.Tag, symbol string) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// IDR returns the default formatter: Indonesian locale, rupiah symbol,
// zero decimal places.
func IDR() *Formatter {
	return NewFormatter(language.Indonesian, "Rp")
}

// Format renders an amount with thousands separators and the currency symbol.
func (f *Formatter) Format(a Amount) string {
	return f.symbol + f.printer.Sprintf("%d", int64(a))
}
