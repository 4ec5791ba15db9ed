package timetable

import "time"

// ResolveParity возвращает тип недели (1 или 2) для target, если на момент reference
// действовала неделя current.
//
// Разница считается по номерам ISO-недель без учёта года, поэтому на стыке годов
// (неделя 52/53 -> 1) результат может быть неверным. Это известное поведение.
func ResolveParity(current int, reference, target time.Time) int {
	if !validParity(current) {
		current = DefaultParity
	}

	_, referenceWeek := reference.ISOWeek()
	_, targetWeek := target.ISOWeek()

	if (targetWeek-referenceWeek)%2 != 0 {
		return Opposite(current)
	}
	return current
}

func Opposite(parity int) int {
	if parity == 1 {
		return 2
	}
	return 1
}
