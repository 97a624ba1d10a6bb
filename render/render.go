// Package render holds the pure formatting helpers shared by the widget view
// projections. Nothing here reads or writes storage; every function is a pure
// mapping from values to display strings.
package render

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Money formats an amount as the widgets display prices: "$799.99".
func Money(amount float64) string {
	if amount < 0 {
		return "-$" + strconv.FormatFloat(-amount, 'f', 2, 64)
	}
	return "$" + strconv.FormatFloat(amount, 'f', 2, 64)
}

// SignedMoney renders a positive amount with an explicit +/- prefix, used for
// income and expense rows.
func SignedMoney(amount float64, income bool) string {
	if income {
		return "+" + Money(amount)
	}
	return "-" + Money(amount)
}

// Balance formats a running balance, keeping the sign inside the currency
// symbol ("$-40.00") the way the expense tracker displays it.
func Balance(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// RelativeDate renders a short human date: Today, Yesterday, "N days ago"
// within a week, otherwise a short date. Day distance is a plain wall-clock
// subtraction without timezone normalization, so an entry logged just before
// midnight can shift a day.
func RelativeDate(t, now time.Time) string {
	days := int(math.Floor(now.Sub(t).Hours() / 24))
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	}
	return t.Format("1/2/2006")
}

// Progress returns the percentage of n covered after completing step i.
func Progress(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(i) / float64(n) * 100
}
