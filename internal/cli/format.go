// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats a currency amount. Amounts of 1,000 or more are
// rounded to whole units.
// e.g., 1234.5 -> "$1,235", 84.2 -> "$84.20", -12 -> "-$12.00"
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	if v >= 1000 {
		return "$" + FormatNumber(int64(math.Round(v)))
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatDecimal formats a decimal amount like FormatMoney.
func FormatDecimal(d decimal.Decimal) string {
	return FormatMoney(d.InexactFloat64())
}

// FormatCompact formats an amount with a magnitude suffix for axis labels.
// e.g., 1234 -> "$1.2K", 1250000 -> "$1.2M"
func FormatCompact(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

// FormatMonths formats a month count as years and months.
// e.g., 40 -> "3y 4m", 8 -> "8m", 24 -> "2y"
func FormatMonths(n int) string {
	if n <= 0 {
		return "0m"
	}
	years, months := n/12, n%12
	switch {
	case years == 0:
		return fmt.Sprintf("%dm", months)
	case months == 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dy %dm", years, months)
	}
}

// FormatYears formats a fractional year count.
// e.g., 24.5 -> "24.5 yrs", 1 -> "1.0 yr"
func FormatYears(y float64) string {
	if y == 1 {
		return "1.0 yr"
	}
	return fmt.Sprintf("%.1f yrs", y)
}

// FormatMonth formats a month start for display. The zero time renders as
// "never".
func FormatMonth(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("Jan 2006")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a value already expressed in percent.
// e.g., 52 -> "52.0%"
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats a money delta with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}
