// Package cli provides the command-line interface for the options
// analytics application.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatCurrency formats an amount with thousands separators and two
// decimal places.
func FormatCurrency(amount float64) string {
	return FormatCurrencyDecimal(decimal.NewFromFloat(amount))
}

// FormatCurrencyDecimal formats a decimal amount with thousands
// separators and two decimal places.
func FormatCurrencyDecimal(amount decimal.Decimal) string {
	negative := amount.Sign() < 0
	if negative {
		amount = amount.Neg()
	}

	str := amount.StringFixed(2)
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	result := "$" + groupThousands(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(s[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPnL formats P&L with sign.
func FormatPnL(pnl decimal.Decimal) string {
	formatted := FormatCurrencyDecimal(pnl)
	if pnl.Sign() > 0 {
		return "+" + formatted
	}
	return formatted
}

// FormatVolume formats a volume or open interest figure in compact
// form (K/M/B).
func FormatVolume(volume int64) string {
	switch {
	case volume >= 1_000_000_000:
		return fmt.Sprintf("%.2f B", float64(volume)/1_000_000_000)
	case volume >= 1_000_000:
		return fmt.Sprintf("%.2f M", float64(volume)/1_000_000)
	case volume >= 1_000:
		return fmt.Sprintf("%.2f K", float64(volume)/1_000)
	}
	return fmt.Sprintf("%d", volume)
}

// FormatPrice formats a price with appropriate decimal places.
func FormatPrice(price float64) string {
	if price >= 10 {
		return fmt.Sprintf("%.2f", price)
	}
	return fmt.Sprintf("%.4f", price)
}

// FormatGreeks formats option Greeks on one line.
func FormatGreeks(delta, gamma, theta, vega float64) string {
	return fmt.Sprintf("Δ: %.4f  Γ: %.4f  Θ: %.4f  ν: %.4f", delta, gamma, theta, vega)
}

// FormatIV formats implied volatility as a percentage.
func FormatIV(iv float64) string {
	return fmt.Sprintf("%.2f%%", iv*100)
}

// FormatOI formats open interest.
func FormatOI(oi int64) string {
	return FormatVolume(oi)
}

// FormatGEX formats a gamma exposure figure in compact form.
func FormatGEX(gex float64) string {
	abs := gex
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.2f B", gex/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.2f M", gex/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.2f K", gex/1_000)
	}
	return fmt.Sprintf("%.2f", gex)
}

// FormatDate formats a date.
func FormatDate(t time.Time) string {
	return t.Format("02-Jan-2006")
}

// FormatDateTime formats a datetime.
func FormatDateTime(t time.Time) string {
	return t.Format("02-Jan-2006 15:04:05")
}

// FormatDTE formats days to expiration.
func FormatDTE(days float64) string {
	if days < 1 {
		return fmt.Sprintf("%.1fd", days)
	}
	return fmt.Sprintf("%.0fd", days)
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// PadLeft pads a string to the left.
func PadLeft(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(" ", length-len(s)) + s
}

// Center centers a string.
func Center(s string, length int) string {
	if len(s) >= length {
		return s
	}
	padding := length - len(s)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
