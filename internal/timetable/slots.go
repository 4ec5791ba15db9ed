package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotTable задаёт отображаемое время пары по её номеру поверх времени из API.
type SlotTable map[int]string

func DefaultSlotTable() SlotTable {
	return SlotTable{}
}

// ParseSlotTable разбирает строку вида "1=08:00-09:30;2=09:40-11:10".
func ParseSlotTable(value string) (SlotTable, error) {
	table := DefaultSlotTable()
	value = strings.TrimSpace(value)
	if value == "" {
		return table, nil
	}

	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, display, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("некорректная запись времени пары %q", entry)
		}
		index, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || index < 1 {
			return nil, fmt.Errorf("некорректный номер пары %q", key)
		}
		display = strings.TrimSpace(display)
		if display == "" {
			return nil, fmt.Errorf("пустое время для пары %d", index)
		}
		table[index] = display
	}

	return table, nil
}

// Display возвращает время пары: из таблицы, если оно там задано, иначе из слота.
func (t SlotTable) Display(slot TimeSlot) string {
	if display, ok := t[slot.Index]; ok {
		return display
	}
	return slot.Begin.Format("15:04") + "-" + slot.End.Format("15:04")
}
