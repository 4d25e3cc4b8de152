package services

import (
	"errors"
	"time"

	"sales-dashboard/internal/models"
)

var ErrInvalidRange = errors.New("start date is after end date")

// FilterByDate returns the orders dated within [start, end], both days
// inclusive. A zero bound leaves that side open. Orders without a valid
// date are never included. The input slice is not modified.
func FilterByDate(orders []models.Order, start, end time.Time) ([]models.Order, error) {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return nil, ErrInvalidRange
	}

	from := truncateDay(start)
	var until time.Time
	if !end.IsZero() {
		until = truncateDay(end).AddDate(0, 0, 1)
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.OrderDate.IsZero() {
			continue
		}
		if !start.IsZero() && o.OrderDate.Before(from) {
			continue
		}
		if !end.IsZero() && !o.OrderDate.Before(until) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// DateBounds returns the earliest and latest valid order dates. ok is false
// when no order has a valid date.
func DateBounds(orders []models.Order) (first, last time.Time, ok bool) {
	for _, o := range orders {
		if o.OrderDate.IsZero() {
			continue
		}
		if !ok || o.OrderDate.Before(first) {
			first = o.OrderDate
		}
		if !ok || o.OrderDate.After(last) {
			last = o.OrderDate
		}
		ok = true
	}
	return first, last, ok
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
