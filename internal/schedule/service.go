package schedule

import (
	"context"
	"errors"
	"schedulebot/internal/timetable"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNoData = errors.New("нет данных о расписании")

type Status string

const (
	StatusNoData   Status = "no_data"
	StatusEmptyDay Status = "empty_day"
	StatusLessons  Status = "lessons"
)

type DayResult struct {
	Date     time.Time             `json:"date"`
	Status   Status                `json:"status"`
	Origin   Origin                `json:"origin"`
	Schedule timetable.DaySchedule `json:"schedule"`
}

type WeekResult struct {
	Monday time.Time   `json:"monday"`
	Origin Origin      `json:"origin"`
	Days   []DayResult `json:"days"`
}

const studyDays = 6

type Service struct {
	source Fetcher
	slots  timetable.SlotTable
	loc    *time.Location
	now    func() time.Time
}

func NewService(source Fetcher, slots timetable.SlotTable, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		source: source,
		slots:  slots,
		loc:    loc,
		now:    time.Now,
	}
}

func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// GetDaySchedule загружает расписание и строит список пар на дату date.
func (s *Service) GetDaySchedule(ctx context.Context, date time.Time) DayResult {
	log := logrus.WithFields(logrus.Fields{
		"query_id": uuid.New().String(),
		"date":     date.In(s.loc).Format("2006-01-02"),
	})

	fetched, origin := s.source.Fetch(ctx)
	result := s.day(fetched, origin, date)

	log.WithFields(logrus.Fields{
		"origin":  origin.String(),
		"status":  result.Status,
		"lessons": len(result.Schedule.Lessons),
	}).Info("Запрос расписания на день")
	return result
}

// GetWeekSchedule строит расписание с понедельника по субботу недели, содержащей date.
func (s *Service) GetWeekSchedule(ctx context.Context, date time.Time) WeekResult {
	log := logrus.WithFields(logrus.Fields{
		"query_id": uuid.New().String(),
		"week_of":  date.In(s.loc).Format("2006-01-02"),
	})

	fetched, origin := s.source.Fetch(ctx)
	monday := timetable.Monday(date.In(s.loc))

	week := WeekResult{Monday: monday, Origin: origin, Days: make([]DayResult, 0, studyDays)}
	for i := 0; i < studyDays; i++ {
		week.Days = append(week.Days, s.day(fetched, origin, monday.AddDate(0, 0, i)))
	}

	log.WithField("origin", origin.String()).Info("Запрос расписания на неделю")
	return week
}

// CurrentParity возвращает тип текущей недели; без данных — неделя по умолчанию.
func (s *Service) CurrentParity(ctx context.Context) (int, Origin) {
	fetched, origin := s.source.Fetch(ctx)
	if fetched == nil || fetched.Document == nil {
		return timetable.DefaultParity, origin
	}
	return s.parity(fetched, s.Now()), origin
}

func (s *Service) day(fetched *Fetched, origin Origin, date time.Time) DayResult {
	date = date.In(s.loc)
	result := DayResult{
		Date:     date,
		Status:   StatusNoData,
		Origin:   origin,
		Schedule: timetable.DaySchedule{Weekday: timetable.ISOWeekday(date), Lessons: []timetable.DayLesson{}},
	}
	if fetched == nil || fetched.Document == nil {
		return result
	}

	parity := s.parity(fetched, date)
	result.Schedule = timetable.Project(fetched.Document, timetable.ISOWeekday(date), parity, s.slots)
	if result.Schedule.Empty() {
		result.Status = StatusEmptyDay
	} else {
		result.Status = StatusLessons
	}
	return result
}

func (s *Service) parity(fetched *Fetched, target time.Time) int {
	return timetable.ResolveParity(fetched.Document.CurrentWeek, fetched.ObservedAt.In(s.loc), target.In(s.loc))
}
