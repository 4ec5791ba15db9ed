package timetable

import "sort"

type DayLesson struct {
	Index      int    `json:"index"`
	Time       string `json:"time"`
	Subject    string `json:"subject"`
	Instructor string `json:"instructor"`
	Room       string `json:"room"`
}

type DaySchedule struct {
	Weekday int         `json:"weekday"`
	Parity  int         `json:"parity"`
	Lessons []DayLesson `json:"lessons"`
}

// Empty сообщает, что в этот день занятий нет. Отсутствие данных
// обозначается не здесь, а результатом загрузки.
func (d DaySchedule) Empty() bool {
	return len(d.Lessons) == 0
}

// Project собирает занятия на день недели weekday (ISO, понедельник = 1) для недели parity.
func Project(doc *Document, weekday, parity int, slots SlotTable) DaySchedule {
	day := DaySchedule{Weekday: weekday, Parity: parity, Lessons: []DayLesson{}}
	if doc == nil {
		return day
	}

	matched := make([]TemplateLesson, 0)
	for _, lesson := range doc.Lessons {
		if lesson.Weekday != weekday || lesson.Subject == "" {
			continue
		}
		if lesson.Parity != EveryWeek && lesson.Parity != parity {
			continue
		}
		matched = append(matched, lesson)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Index < matched[j].Index
	})

	for _, lesson := range matched {
		slot, ok := doc.slot(lesson.Index)
		if !ok {
			continue
		}
		day.Lessons = append(day.Lessons, DayLesson{
			Index:      lesson.Index,
			Time:       slots.Display(slot),
			Subject:    lesson.Subject,
			Instructor: lesson.Instructor,
			Room:       lesson.Room,
		})
	}

	return day
}
