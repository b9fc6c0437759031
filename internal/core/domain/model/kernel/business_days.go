package kernel

import "time"

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// RollToBusinessDay returns t's calendar day if it is a business day, otherwise the
// following Monday. The time of day is dropped.
func RollToBusinessDay(t time.Time) time.Time {
	d := truncateToDay(t)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// NextBusinessDay returns the first business day strictly after t.
func NextBusinessDay(t time.Time) time.Time {
	return RollToBusinessDay(truncateToDay(t).AddDate(0, 0, 1))
}

// AddBusinessDays moves n business days forward from t, skipping weekends.
// A non-positive n returns t rolled to a business day.
func AddBusinessDays(t time.Time, n int) time.Time {
	d := RollToBusinessDay(t)
	for i := 0; i < n; i++ {
		d = NextBusinessDay(d)
	}
	return d
}

// FirstLegDates schedules the first leg of a shipment from the requested pickup date.
func FirstLegDates(requestedPickup time.Time, transitDays int) (pickup, delivery time.Time) {
	pickup = RollToBusinessDay(requestedPickup)
	return pickup, AddBusinessDays(pickup, transitDays)
}

// ChainLegDates schedules a leg that starts once the previous leg has delivered:
// pickup is the next business day after the previous delivery, delivery is pickup
// plus transitDays business days.
func ChainLegDates(previousDelivery time.Time, transitDays int) (pickup, delivery time.Time) {
	pickup = NextBusinessDay(previousDelivery)
	return pickup, AddBusinessDays(pickup, transitDays)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
