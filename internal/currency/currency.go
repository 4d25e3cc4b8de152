package currency

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders monetary amounts for one currency in one locale, e.g.
// AUD amounts with Colombian Spanish digit grouping.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

func New(code, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{unit: unit, printer: message.NewPrinter(tag)}, nil
}

func (f *Formatter) Format(amount float64) string {
	return f.printer.Sprintf("%s %v", f.unit.String(), number.Decimal(amount, number.Scale(2)))
}

func (f *Formatter) Code() string {
	return f.unit.String()
}
