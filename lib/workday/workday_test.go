package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkday(t *testing.T) {
	t.Run("weekend check", func(t *testing.T) {
		require.True(t, IsWeekend(date(2026, time.January, 3)))  // Saturday
		require.True(t, IsWeekend(date(2026, time.January, 4)))  // Sunday
		require.False(t, IsWeekend(date(2026, time.January, 5))) // Monday
	})

	t.Run("published year wins over pattern", func(t *testing.T) {
		// Constitution day 2026 is observed on Monday Feb 2, not Feb 5.
		require.True(t, IsPublicHoliday(date(2026, time.February, 2), RegionMexico))
		require.False(t, IsPublicHoliday(date(2026, time.February, 5), RegionMexico))
		// 2030 has no published calendar, the fixed date applies.
		require.True(t, IsPublicHoliday(date(2030, time.February, 5), RegionMexico))
	})

	t.Run("unknown region has no holidays", func(t *testing.T) {
		require.False(t, IsPublicHoliday(date(2026, time.January, 1), "atlantis"))
		require.True(t, IsWorkingDay(date(2026, time.January, 1), "atlantis"))
	})

	t.Run("empty region excludes weekends only", func(t *testing.T) {
		// Jan 1 2026 is a Thursday.
		require.True(t, IsWorkingDay(date(2026, time.January, 1), ""))
		require.Equal(t, 5, CountWorkingDays(date(2026, time.January, 5), date(2026, time.January, 11), ""))
	})

	t.Run("count is inclusive on both ends", func(t *testing.T) {
		// Mon Jan 5 .. Fri Jan 9 2026, no holidays in any calendar.
		require.Equal(t, 5, CountWorkingDays(date(2026, time.January, 5), date(2026, time.January, 9), RegionMexico))
		require.Equal(t, 1, CountWorkingDays(date(2026, time.January, 5), date(2026, time.January, 5), RegionMexico))
	})

	t.Run("inverted range counts zero", func(t *testing.T) {
		require.Equal(t, 0, CountWorkingDays(date(2026, time.January, 9), date(2026, time.January, 5), RegionMexico))
	})

	t.Run("year end span for mexico", func(t *testing.T) {
		// Dec 23 2025 (Tue) .. Jan 1 2026 (Thu). Weekends: Dec 27, 28.
		// Holidays on working days: Dec 25 2025 and Jan 1 2026.
		b := BreakdownRange(date(2025, time.December, 23), date(2026, time.January, 1), RegionMexico)
		require.Equal(t, 10, b.CalendarDays)
		require.Equal(t, 2, b.WeekendDays)
		require.Equal(t, 2, b.HolidayDays)
		require.Equal(t, 6, b.WorkingDays)
		require.Len(t, b.Holidays, 2)
		require.Equal(t, "Navidad", b.Holidays[0].Name)
		require.Equal(t, "Año Nuevo", b.Holidays[1].Name)
	})

	t.Run("holiday on weekend attributed to weekend", func(t *testing.T) {
		// Aug 15 2026 is a Saturday and a Madrid holiday.
		b := BreakdownRange(date(2026, time.August, 15), date(2026, time.August, 15), RegionMadrid)
		require.Equal(t, 1, b.WeekendDays)
		require.Equal(t, 0, b.HolidayDays)
		require.Equal(t, 0, b.WorkingDays)
		require.Len(t, b.Holidays, 1)
		require.True(t, b.Holidays[0].IsWeekend)
	})

	t.Run("aliases share the national calendar", func(t *testing.T) {
		require.Equal(t,
			YearHolidays(2026, RegionColombia),
			YearHolidays(2026, RegionBogota))
		require.Equal(t,
			YearHolidays(2026, RegionChile),
			YearHolidays(2026, RegionSantiagoChile))
	})

	t.Run("year holidays sorted", func(t *testing.T) {
		list := YearHolidays(2026, RegionChile)
		require.Len(t, list, 16)
		for i := 1; i < len(list); i++ {
			require.True(t, list[i-1].Date.Before(list[i].Date))
		}
	})

	t.Run("pattern fallback year holidays", func(t *testing.T) {
		list := YearHolidays(2030, RegionCaracas)
		require.Len(t, list, 13)
		require.Equal(t, "Año Nuevo", list[0].Name)
	})

	t.Run("available regions", func(t *testing.T) {
		regions := AvailableRegions()
		require.Len(t, regions, 6)
		for _, r := range regions {
			require.True(t, IsKnownRegion(r.Code))
		}
	})
}
