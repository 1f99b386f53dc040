package workday

import (
	"sort"
	"time"
)

// Region codes assignable to employees. Bogotá and Santiago are aliases of
// their national calendars kept for directory compatibility.
const (
	RegionMadrid        = "madrid"
	RegionAndalucia     = "andalucia"
	RegionMexico        = "mexico"
	RegionColombia      = "colombia"
	RegionBogota        = "bogota"
	RegionChile         = "chile"
	RegionSantiagoChile = "santiago_chile"
	RegionCaracas       = "caracas"
)

type Region struct {
	Code string
	Name string
}

func AvailableRegions() []Region {
	return []Region{
		{Code: RegionMadrid, Name: "Madrid, España"},
		{Code: RegionAndalucia, Name: "Andalucía, España"},
		{Code: RegionMexico, Name: "México"},
		{Code: RegionSantiagoChile, Name: "Santiago de Chile, Chile"},
		{Code: RegionCaracas, Name: "Caracas, Venezuela"},
		{Code: RegionBogota, Name: "Bogotá, Colombia"},
	}
}

func IsKnownRegion(region string) bool {
	if _, ok := yearSpecificHolidays[region]; ok {
		return true
	}
	_, ok := patternHolidays[region]
	return ok
}

type Holiday struct {
	Date      time.Time
	Name      string
	Note      string
	IsWeekend bool
}

func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// holidayName resolves the date against the regional calendar, published
// year data first. A published year with no match means no holiday even if
// the pattern table would say otherwise.
func holidayName(day time.Time, region string) (string, bool) {
	if byYear, ok := yearSpecificHolidays[region]; ok {
		if yearData, ok := byYear[day.Year()]; ok {
			for _, h := range yearData {
				if day.Month() == time.Month(h.Month) && day.Day() == h.Day {
					return h.Name, true
				}
			}
			return "", false
		}
	}
	for _, h := range patternHolidays[region] {
		if day.Month() == time.Month(h.Month) && day.Day() == h.Day {
			return h.Name, true
		}
	}
	return "", false
}

// IsPublicHoliday reports whether the date is a public holiday in the
// region. Unknown regions have no holidays.
func IsPublicHoliday(day time.Time, region string) bool {
	_, ok := holidayName(day, region)
	return ok
}

// IsWorkingDay reports whether the date is neither a weekend nor a regional
// holiday. With an empty region only weekends are excluded.
func IsWorkingDay(day time.Time, region string) bool {
	if IsWeekend(day) {
		return false
	}
	if region != "" && IsPublicHoliday(day, region) {
		return false
	}
	return true
}

// CountWorkingDays counts working days between start and end, both
// inclusive. An inverted range counts zero.
func CountWorkingDays(start, end time.Time, region string) int {
	return BreakdownRange(start, end, region).WorkingDays
}

// Breakdown decomposes a date span for one regional calendar. Every
// calendar day is attributed exactly once: a holiday falling on a weekend
// counts as a weekend day.
type Breakdown struct {
	StartDate    time.Time
	EndDate      time.Time
	CalendarDays int
	WorkingDays  int
	WeekendDays  int
	HolidayDays  int
	Holidays     []Holiday
}

func BreakdownRange(start, end time.Time, region string) Breakdown {
	start = dateOnly(start)
	end = dateOnly(end)
	result := Breakdown{StartDate: start, EndDate: end}
	if start.After(end) {
		return result
	}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		result.CalendarDays++
		name, isHoliday := holidayName(day, region)
		if isHoliday {
			result.Holidays = append(result.Holidays, Holiday{
				Date:      day,
				Name:      name,
				IsWeekend: IsWeekend(day),
			})
		}
		switch {
		case IsWeekend(day):
			result.WeekendDays++
		case isHoliday:
			result.HolidayDays++
		default:
			result.WorkingDays++
		}
	}
	return result
}

// HolidaysInRange lists regional holidays falling between start and end,
// both inclusive, ordered by date.
func HolidaysInRange(start, end time.Time, region string) []Holiday {
	return BreakdownRange(start, end, region).Holidays
}

// YearHolidays lists all holidays of the year for the region, ordered by
// date.
func YearHolidays(year int, region string) []Holiday {
	result := make([]Holiday, 0)
	if byYear, ok := yearSpecificHolidays[region]; ok {
		if yearData, ok := byYear[year]; ok {
			for _, h := range yearData {
				day := time.Date(year, time.Month(h.Month), h.Day, 0, 0, 0, 0, time.UTC)
				result = append(result, Holiday{Date: day, Name: h.Name, Note: h.Note, IsWeekend: IsWeekend(day)})
			}
			sortHolidays(result)
			return result
		}
	}
	for _, h := range patternHolidays[region] {
		day := time.Date(year, time.Month(h.Month), h.Day, 0, 0, 0, 0, time.UTC)
		// Feb 29 in a non-leap year normalizes to Mar 1, skip such entries.
		if day.Month() != time.Month(h.Month) || day.Day() != h.Day {
			continue
		}
		result = append(result, Holiday{Date: day, Name: h.Name, IsWeekend: IsWeekend(day)})
	}
	sortHolidays(result)
	return result
}

func sortHolidays(list []Holiday) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
