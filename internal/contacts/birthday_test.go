package contacts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/rolodex-app/rolodex/testing"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func birthdayContact(id int64, birthday time.Time) Contact {
	return Contact{ID: id, OwnerID: 1, FirstName: "c", Birthday: &birthday}
}

func TestNextOccurrence(t *testing.T) {
	cases := []struct {
		name     string
		birthday time.Time
		today    time.Time
		want     time.Time
	}{
		{"later this year", date(1990, time.March, 5), date(2026, time.March, 1), date(2026, time.March, 5)},
		{"today counts", date(1990, time.March, 1), date(2026, time.March, 1), date(2026, time.March, 1)},
		{"already passed", date(1990, time.February, 15), date(2026, time.March, 1), date(2027, time.February, 15)},
		{"year wrap", date(1990, time.January, 2), date(2026, time.December, 28), date(2027, time.January, 2)},
		{"feb 29 in non-leap year", date(1992, time.February, 29), date(2026, time.February, 25), date(2026, time.March, 1)},
		{"feb 29 in leap year", date(1992, time.February, 29), date(2028, time.February, 25), date(2028, time.February, 29)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextOccurrence(tc.birthday, tc.today))
		})
	}
}

func TestUpcomingWindowFiltersPassedAnniversaries(t *testing.T) {
	now := date(2026, time.March, 1)
	list := []Contact{
		birthdayContact(1, date(1990, time.February, 15)),
		birthdayContact(2, date(1985, time.March, 5)),
	}

	got := upcomingWindow(list, now, 7)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestUpcomingWindowWrapsYearBoundary(t *testing.T) {
	now := date(2026, time.December, 28)
	list := []Contact{
		birthdayContact(1, date(1990, time.January, 2)),
		birthdayContact(2, date(1990, time.January, 10)),
		birthdayContact(3, date(1990, time.December, 30)),
	}

	got := upcomingWindow(list, now, 7)
	require.Len(t, got, 2)
	// Dec 30 is 2 days out, Jan 2 is 5; Jan 10 falls outside the window.
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestUpcomingWindowBoundsInclusive(t *testing.T) {
	now := date(2026, time.June, 10)
	list := []Contact{
		birthdayContact(1, date(1990, time.June, 10)),
		birthdayContact(2, date(1990, time.June, 17)),
		birthdayContact(3, date(1990, time.June, 18)),
	}

	got := upcomingWindow(list, now, 7)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestUpcomingWindowSortsByDaysUntilThenID(t *testing.T) {
	now := date(2026, time.June, 10)
	list := []Contact{
		birthdayContact(5, date(1990, time.June, 12)),
		birthdayContact(3, date(1991, time.June, 11)),
		birthdayContact(9, date(1980, time.June, 11)),
	}

	got := upcomingWindow(list, now, 7)
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(9), got[1].ID)
	assert.Equal(t, int64(5), got[2].ID)
}

func TestUpcomingWindowSkipsContactsWithoutBirthday(t *testing.T) {
	now := date(2026, time.June, 10)
	list := []Contact{
		{ID: 1, OwnerID: 1, FirstName: "no-birthday"},
		birthdayContact(2, date(1990, time.June, 11)),
	}

	got := upcomingWindow(list, now, 7)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestUpcomingWindowFebTwentyNinth(t *testing.T) {
	now := date(2026, time.February, 25)
	list := []Contact{
		birthdayContact(1, date(1992, time.February, 29)),
	}

	// 2026 is not a leap year; the anniversary lands on Mar 1, 4 days out.
	got := upcomingWindow(list, now, 7)
	require.Len(t, got, 1)
}
