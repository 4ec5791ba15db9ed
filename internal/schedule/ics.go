package schedule

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/sirupsen/logrus"
)

// ExportWeekICS формирует календарь iCalendar с парами недели.
func ExportWeekICS(week WeekResult, groupName string) (string, error) {
	if week.Origin == Unavailable {
		return "", ErrNoData
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//schedulebot//" + groupName + "//RU")

	stamp := time.Now().UTC()
	for _, day := range week.Days {
		for _, lesson := range day.Schedule.Lessons {
			start, end, err := lessonBounds(day.Date, lesson.Time)
			if err != nil {
				logrus.Debugf("Пара %d (%s) пропущена в календаре: %v", lesson.Index, day.Date.Format("2006-01-02"), err)
				continue
			}

			uid := fmt.Sprintf("%s-%d-%s@schedulebot", day.Date.Format("20060102"), lesson.Index, groupName)
			event := cal.AddEvent(uid)
			event.SetDtStampTime(stamp)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(lesson.Subject)
			event.SetLocation(lesson.Room)
			event.SetDescription("Преподаватель: " + lesson.Instructor)
		}
	}

	return cal.Serialize(), nil
}

// lessonBounds переводит отображаемое время "08:15-09:45" в моменты на дату day.
func lessonBounds(day time.Time, display string) (time.Time, time.Time, error) {
	display = strings.ReplaceAll(display, "–", "-")
	from, to, ok := strings.Cut(display, "-")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("некорректное время %q", display)
	}

	start, err := clockOn(day, from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := clockOn(day, to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("окончание раньше начала в %q", display)
	}
	return start, end, nil
}

func clockOn(day time.Time, value string) (time.Time, error) {
	clock, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректное время %q: %w", value, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), nil
}
