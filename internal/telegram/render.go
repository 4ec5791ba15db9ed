package telegram

import (
	"fmt"
	"schedulebot/internal/schedule"
	"schedulebot/internal/timetable"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	noDataText    = "Не удалось получить данные о расписании. Сервер АмГУ может быть недоступен, попробуйте позже."
	emptyDayText  = "В этот день занятий нет."
	cachedNote    = "⚠️ _Сервер АмГУ недоступен, показано сохранённое расписание._"
	thisWeekData  = "this_week"
	nextWeekData  = "next_week"
	dateLayout    = "02.01.2006"
	weekdayInMenu = 6
)

func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

// RenderDay формирует текст сообщения с расписанием на день.
func RenderDay(result schedule.DayResult) string {
	if result.Status == schedule.StatusNoData {
		return noDataText
	}

	dayName := timetable.WeekdayName(result.Schedule.Weekday)
	var sb strings.Builder

	if result.Status == schedule.StatusEmptyDay {
		sb.WriteString(fmt.Sprintf("*%s, %s*\n\n%s", dayName, result.Date.Format(dateLayout), emptyDayText))
	} else {
		sb.WriteString(fmt.Sprintf("*%s, %s (Неделя %d)*\n\n", dayName, result.Date.Format(dateLayout), result.Schedule.Parity))

		parts := make([]string, 0, len(result.Schedule.Lessons))
		for i, lesson := range result.Schedule.Lessons {
			parts = append(parts, fmt.Sprintf(
				"*%d. %s*\n📚 _Предмет:_ %s\n👨‍🏫 _Преподаватель:_ %s\n🚪 _Аудитория:_ %s\n",
				i+1, escape(lesson.Time), escape(lesson.Subject), escape(lesson.Instructor), escape(lesson.Room),
			))
		}
		sb.WriteString(strings.Join(parts, "\n"))
	}

	if result.Origin == schedule.Cached {
		sb.WriteString("\n\n")
		sb.WriteString(cachedNote)
	}
	return sb.String()
}

func RenderGreeting(groupName string, today time.Time, parity int, origin schedule.Origin) string {
	week := fmt.Sprintf("Неделя %d", parity)
	if origin == schedule.Unavailable {
		week += " (нет связи с сервером АмГУ)"
	}
	return fmt.Sprintf(
		"Привет! Я бот с расписанием группы *%s*.\n\n*Сегодня:* %s\n*Текущая неделя:* %s\n\nВыберите нужный пункт в меню:",
		escape(groupName), today.Format(dateLayout), week,
	)
}

// TargetDate возвращает дату дня недели weekday на текущей или следующей неделе.
func TargetDate(today time.Time, weekday int, nextWeek bool) time.Time {
	monday := timetable.Monday(today)
	if nextWeek {
		monday = monday.AddDate(0, 0, 7)
	}
	return monday.AddDate(0, 0, weekday-1)
}

func weekCallbackData(nextWeek bool, weekday int) string {
	prefix := thisWeekData
	if nextWeek {
		prefix = nextWeekData
	}
	return fmt.Sprintf("%s_%d", prefix, weekday)
}

// ParseWeekCallback разбирает данные кнопки вида "this_week_3".
func ParseWeekCallback(data string) (nextWeek bool, weekday int, ok bool) {
	i := strings.LastIndex(data, "_")
	if i < 0 {
		return false, 0, false
	}
	prefix, number := data[:i], data[i+1:]

	switch prefix {
	case thisWeekData:
	case nextWeekData:
		nextWeek = true
	default:
		return false, 0, false
	}

	weekday, err := strconv.Atoi(number)
	if err != nil || weekday < 1 || weekday > 7 {
		return false, 0, false
	}
	return nextWeek, weekday, true
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonToday),
			tgbotapi.NewKeyboardButton(buttonTomorrow),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonThisWeek),
			tgbotapi.NewKeyboardButton(buttonNextWeek),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func weekKeyboard(nextWeek bool) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, weekdayInMenu)
	for weekday := 1; weekday <= weekdayInMenu; weekday++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			timetable.WeekdayShortName(weekday),
			weekCallbackData(nextWeek, weekday),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
