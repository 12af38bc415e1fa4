package pricing

import (
	"fmt"
	"time"
)

// JST is the counter's local zone; all business-day math happens in it.
var JST = time.FixedZone("JST", 9*60*60)

// Business hours for pickups, inclusive on both ends.
const (
	BusinessOpenHour  = 9
	BusinessCloseHour = 21
)

// Late pickup window: pickups expected at or after lateWindowStart up to
// closing get flagged on the board.
const lateWindowStartHour = 19

// StorageDays is the inclusive JST calendar-day span between the order
// creation and the pickup, at least 1.
func StorageDays(createdAt, pickupAt time.Time) (int, error) {
	created := createdAt.In(JST)
	pickup := pickupAt.In(JST)
	if pickup.Before(created) {
		return 0, fmt.Errorf("pickup time cannot be before the order creation time")
	}

	createdDay := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, JST)
	pickupDay := time.Date(pickup.Year(), pickup.Month(), pickup.Day(), 0, 0, 0, 0, JST)
	days := int(pickupDay.Sub(createdDay).Hours()/24) + 1
	return max(days, 1), nil
}

// ValidatePickupWindow rejects pickups outside business hours.
func ValidatePickupWindow(pickupAt time.Time) error {
	local := pickupAt.In(JST)
	minutes := local.Hour()*60 + local.Minute()
	if minutes < BusinessOpenHour*60 || minutes > BusinessCloseHour*60 {
		return fmt.Errorf("pickup time must be within business hours %02d:00-%02d:00 JST",
			BusinessOpenHour, BusinessCloseHour)
	}
	return nil
}

// IsLatePickup reports whether an "HH:MM" pickup time falls inside the
// late window [19:00, 21:00]. Unparseable input is never late.
func IsLatePickup(hhmm string) bool {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= lateWindowStartHour*60 && minutes <= BusinessCloseHour*60
}

// NextPickupDefault rounds now up to the next :00/:30 slot inside
// business hours, rolling to next morning's opening after close.
func NextPickupDefault(now time.Time) time.Time {
	local := now.In(JST).Truncate(time.Minute)
	switch m := local.Minute(); {
	case m == 0 || m == 30:
	case m < 30:
		local = local.Add(time.Duration(30-m) * time.Minute)
	default:
		local = local.Add(time.Duration(60-m) * time.Minute)
	}

	if local.Hour() < BusinessOpenHour {
		return time.Date(local.Year(), local.Month(), local.Day(), BusinessOpenHour, 0, 0, 0, JST)
	}
	if local.Hour() > BusinessCloseHour || (local.Hour() == BusinessCloseHour && local.Minute() > 0) {
		next := local.Add(24 * time.Hour)
		return time.Date(next.Year(), next.Month(), next.Day(), BusinessOpenHour, 0, 0, 0, JST)
	}
	return local
}
