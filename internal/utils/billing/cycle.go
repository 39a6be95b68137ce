// Package billing holds the statement-cycle date arithmetic for credit cards.
// All dates are calendar dates at UTC midnight.
package billing

import "time"

// DaysIn returns the number of days of the month that contains t.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstOfMonth normalizes t to the first day of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// InvoiceReferenceDate maps a purchase to the statement it belongs to. Purchases
// on or after the closing day roll into the next month's statement.
func InvoiceReferenceDate(purchaseDate time.Time, closingDay int) time.Time {
	ref := FirstOfMonth(purchaseDate)
	if purchaseDate.Day() >= closingDay {
		return ref.AddDate(0, 1, 0)
	}
	return ref
}

// SafeDueDate sets the day of referenceDate to dueDay, clamped to the month length.
func SafeDueDate(referenceDate time.Time, dueDay int) time.Time {
	return withDay(referenceDate.Year(), referenceDate.Month(), dueDay)
}

// AddMonths moves t forward n calendar months keeping the day, clamped to the
// target month length (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return withDay(first.Year(), first.Month(), t.Day())
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func withDay(year int, month time.Month, day int) time.Time {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
