package timetable

import "time"

var weekdayNames = [...]string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}

var weekdayShortNames = [...]string{"ПН", "ВТ", "СР", "ЧТ", "ПТ", "СБ", "ВС"}

// ISOWeekday: понедельник = 1, воскресенье = 7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func WeekdayName(weekday int) string {
	if weekday < 1 || weekday > 7 {
		return ""
	}
	return weekdayNames[weekday-1]
}

func WeekdayShortName(weekday int) string {
	if weekday < 1 || weekday > 7 {
		return ""
	}
	return weekdayShortNames[weekday-1]
}

// Monday возвращает начало понедельника недели, в которую попадает t.
func Monday(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, 1-ISOWeekday(t))
}
