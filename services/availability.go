package services

import (
	"strconv"
	"time"

	"github.com/abhijitkayal/safar-hub-sub001/models"
)

// DateRange is a half-open [Start, End) pair of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Availability is the result of computing remaining capacity for a listing
// over a queried date range.
type Availability struct {
	PerOptionRemaining  map[string]int `json:"perOptionRemaining"`
	AvailableOptionKeys []string       `json:"availableOptionKeys"`
	IsFullyBooked       bool           `json:"isFullyBooked"`
	BookedRanges        []DateRange    `json:"bookedRanges"`
}

// Day truncates a timestamp to its calendar date; booking math ignores
// time-of-day entirely.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RangesOverlap reports whether two half-open date ranges intersect:
// aStart < bEnd AND bStart < aEnd. A checkout day does not collide with a
// check-in on the same day.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ResolveOption resolves an option key against a listing: a numeric key
// matching a stored option id wins; otherwise the key is matched against
// option names, which keeps options created before ids existed bookable.
// Returns nil when the key matches nothing; callers must treat that as a
// validation failure, not as a zero-capacity option.
func ResolveOption(listing *models.Listing, key string) *models.BookableOption {
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		for i := range listing.Options {
			if uint64(listing.Options[i].ID) == id {
				return &listing.Options[i]
			}
		}
	}
	for i := range listing.Options {
		if listing.Options[i].Name == key {
			return &listing.Options[i]
		}
	}
	return nil
}

// ComputeAvailability computes per-option remaining capacity for the listing
// over [start, end). For every option it starts from the option's maximum
// available count and subtracts the reserved quantities of every
// non-cancelled booking that overlaps the queried range, clamping at zero.
//
// The check is deliberately whole-range: an option counts as available only
// if its worst-case remaining across the entire window is positive. Bookings
// are coarse date ranges, not nightly micro-allocations, so this is
// conservative (it may say unavailable where a day-by-day walk would find a
// gap) but it can never oversell.
//
// Pure: no I/O, no mutation of its inputs.
func ComputeAvailability(listing *models.Listing, bookings []models.Booking, start, end time.Time) Availability {
	start, end = Day(start), Day(end)

	remaining := make(map[string]int, len(listing.Options))
	for i := range listing.Options {
		remaining[listing.Options[i].Key()] = listing.Options[i].Available
	}

	var bookedRanges []DateRange
	for i := range bookings {
		b := &bookings[i]
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		bStart, bEnd := Day(b.StartDate), Day(b.EndDate)
		if !RangesOverlap(start, end, bStart, bEnd) {
			continue
		}
		bookedRanges = append(bookedRanges, DateRange{Start: bStart, End: bEnd})
		for key, qty := range b.Quantities {
			if left, ok := remaining[key]; ok {
				left -= qty
				if left < 0 {
					left = 0 // data inconsistency, never surface negative
				}
				remaining[key] = left
			}
		}
	}

	availableKeys := make([]string, 0, len(listing.Options))
	for i := range listing.Options {
		key := listing.Options[i].Key()
		if remaining[key] > 0 {
			availableKeys = append(availableKeys, key)
		}
	}

	return Availability{
		PerOptionRemaining:  remaining,
		AvailableOptionKeys: availableKeys,
		IsFullyBooked:       len(listing.Options) > 0 && len(availableKeys) == 0,
		BookedRanges:        bookedRanges,
	}
}
