package contacts

import (
	"sort"
	"time"
)

// dateOnly truncates an instant to a UTC calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nextOccurrence returns the birthday anniversary falling on or after today.
// If this year's occurrence has passed, next year's is used. A Feb 29
// birthday normalizes to Mar 1 in non-leap years.
func nextOccurrence(birthday, today time.Time) time.Time {
	occ := time.Date(today.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	if occ.Before(today) {
		occ = time.Date(today.Year()+1, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	}
	return occ
}

// upcomingWindow filters contacts to those whose next birthday anniversary
// falls within windowDays of now (today inclusive, wrapping the year
// boundary) and sorts them ascending by days-until, ties by id.
func upcomingWindow(list []Contact, now time.Time, windowDays int) []Contact {
	today := dateOnly(now)

	type entry struct {
		contact   Contact
		daysUntil int
	}
	var entries []entry
	for _, c := range list {
		if c.Birthday == nil {
			continue
		}
		occ := nextOccurrence(*c.Birthday, today)
		days := int(occ.Sub(today) / (24 * time.Hour))
		if days > windowDays {
			continue
		}
		entries = append(entries, entry{contact: c, daysUntil: days})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].daysUntil != entries[j].daysUntil {
			return entries[i].daysUntil < entries[j].daysUntil
		}
		return entries[i].contact.ID < entries[j].contact.ID
	})

	out := make([]Contact, len(entries))
	for i, e := range entries {
		out[i] = e.contact
	}
	return out
}
