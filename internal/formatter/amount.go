package formatter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SOLDecimals is the number of decimal places between lamports and SOL
const SOLDecimals = 9

var printer = message.NewPrinter(language.English)

// LamportsToSOL converts an integer lamport amount to SOL
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Shift(-SOLDecimals)
}

// FormatSOL renders lamports as SOL with thousands separators and no
// trailing zeros, e.g. 1234500000000 -> "1,234.5".
func FormatSOL(lamports uint64) string {
	whole := lamports / 1_000_000_000
	frac := lamports % 1_000_000_000

	out := printer.Sprintf("%d", whole)
	if frac == 0 {
		return out
	}
	return out + "." + strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
}

// FormatPercentage renders a ratio in [0,1] as a percentage with one decimal
func FormatPercentage(ratio decimal.Decimal) string {
	return ratio.Shift(2).StringFixed(1) + "%"
}

// TruncateAddress keeps the first and last chars of an address
func TruncateAddress(address string, chars int) string {
	if address == "" {
		return ""
	}
	if chars <= 0 {
		chars = 4
	}
	if len(address) <= chars*2 {
		return address
	}
	return address[:chars] + "..." + address[len(address)-chars:]
}
