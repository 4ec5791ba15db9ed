package timetable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultParity     = 1
	EveryWeek         = 0
	MissingInstructor = "Не указан"
	MissingRoom       = "Не указана"
)

var ErrMalformedDocument = errors.New("некорректный документ расписания")

type TemplateLesson struct {
	Weekday    int
	Index      int
	Parity     int
	Subject    string
	Instructor string
	Room       string
}

type TimeSlot struct {
	Index int
	Begin time.Time
	End   time.Time
}

// Document — разобранное расписание группы. После разбора не изменяется.
type Document struct {
	CurrentWeek int
	Lessons     []TemplateLesson
	Slots       []TimeSlot
}

type rawDocument struct {
	CurrentWeek *int          `json:"current_week"`
	Lessons     []rawLesson   `json:"timetable_tamplate_lines"`
	Slots       []rawTimeSlot `json:"schedule_lines"`
}

type rawLesson struct {
	Weekday    int     `json:"weekday"`
	Lesson     int     `json:"lesson"`
	Parity     int     `json:"parity"`
	Discipline *string `json:"discipline_str"`
	Person     *string `json:"person_str"`
	Classroom  *string `json:"classroom_str"`
}

type rawTimeSlot struct {
	Lesson    int    `json:"lesson"`
	BeginTime string `json:"begin_time"`
	EndTime   string `json:"end_time"`
}

// ParseDocument разбирает ответ API. Все значения по умолчанию подставляются здесь,
// проекция получает уже нормализованные данные.
func ParseDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: ожидается JSON-объект", ErrMalformedDocument)
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	doc := &Document{
		CurrentWeek: DefaultParity,
		Lessons:     make([]TemplateLesson, 0, len(raw.Lessons)),
		Slots:       make([]TimeSlot, 0, len(raw.Slots)),
	}

	if raw.CurrentWeek != nil && validParity(*raw.CurrentWeek) {
		doc.CurrentWeek = *raw.CurrentWeek
	} else {
		logrus.Warnf("Поле current_week отсутствует или некорректно, используется неделя %d", DefaultParity)
	}

	for _, l := range raw.Lessons {
		doc.Lessons = append(doc.Lessons, TemplateLesson{
			Weekday:    l.Weekday,
			Index:      l.Lesson,
			Parity:     l.Parity,
			Subject:    valueOr(l.Discipline, ""),
			Instructor: valueOr(l.Person, MissingInstructor),
			Room:       valueOr(l.Classroom, MissingRoom),
		})
	}

	seen := make(map[int]bool, len(raw.Slots))
	for _, s := range raw.Slots {
		if seen[s.Lesson] {
			logrus.Warnf("Повторное время для пары %d пропущено", s.Lesson)
			continue
		}
		begin, err := parseTimestamp(s.BeginTime)
		if err != nil {
			logrus.Warnf("Некорректное время начала пары %d: %v", s.Lesson, err)
			continue
		}
		end, err := parseTimestamp(s.EndTime)
		if err != nil {
			logrus.Warnf("Некорректное время окончания пары %d: %v", s.Lesson, err)
			continue
		}
		seen[s.Lesson] = true
		doc.Slots = append(doc.Slots, TimeSlot{Index: s.Lesson, Begin: begin, End: end})
	}

	return doc, nil
}

func (d *Document) slot(index int) (TimeSlot, bool) {
	for _, s := range d.Slots {
		if s.Index == index {
			return s, true
		}
	}
	return TimeSlot{}, false
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}

func validParity(p int) bool {
	return p == 1 || p == 2
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
