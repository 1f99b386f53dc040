package workdayapimodels

import (
	apimodels "hr-portal-backend/models/api"

	"hr-portal-backend/lib/workday"
)

type HolidayView struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// BreakdownView explains how a date span decomposes into working days for
// one regional calendar.
type BreakdownView struct {
	Region       string        `json:"region"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	CalendarDays int           `json:"calendar_days"`
	WorkingDays  int           `json:"working_days"`
	WeekendDays  int           `json:"weekend_days"`
	HolidayDays  int           `json:"holiday_days"`
	Holidays     []HolidayView `json:"holidays"`
}

func ConvertBreakdown(region string, b workday.Breakdown) BreakdownView {
	holidays := make([]HolidayView, 0, len(b.Holidays))
	for _, h := range b.Holidays {
		holidays = append(holidays, HolidayView{
			Date: apimodels.FormatDate(h.Date),
			Name: h.Name,
		})
	}
	return BreakdownView{
		Region:       region,
		StartDate:    apimodels.FormatDate(b.StartDate),
		EndDate:      apimodels.FormatDate(b.EndDate),
		CalendarDays: b.CalendarDays,
		WorkingDays:  b.WorkingDays,
		WeekendDays:  b.WeekendDays,
		HolidayDays:  b.HolidayDays,
		Holidays:     holidays,
	}
}

type RegionView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
