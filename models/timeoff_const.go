package models

type TimeOffType string

const (
	TimeOffTypeVacation  TimeOffType = "vacation"
	TimeOffTypeSickLeave TimeOffType = "sick_leave"
	TimeOffTypeDayOff    TimeOffType = "day_off"
)

var timeOffTypeHumanName = map[TimeOffType]string{
	TimeOffTypeVacation:  "Vacation",
	TimeOffTypeSickLeave: "Sick leave",
	TimeOffTypeDayOff:    "Day off",
}

func (t TimeOffType) ToHuman() string {
	if human, exist := timeOffTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

func (t TimeOffType) IsValid() bool {
	_, exist := timeOffTypeHumanName[t]
	return exist
}
