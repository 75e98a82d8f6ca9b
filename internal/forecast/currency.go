package forecast

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Result labels shared by every front end.
const (
	ChartTitle  = "Predicted Sales"
	ChartYLabel = "Sales Amount"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v as dollars with two decimals and digit grouping.
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-" + printer.Sprintf("$%.2f", math.Abs(v))
	}
	return printer.Sprintf("$%.2f", v)
}

// SuccessMessage is the line shown after a prediction.
func SuccessMessage(v float64) string {
	return ChartTitle + ": " + FormatCurrency(v)
}
