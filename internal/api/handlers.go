package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"schedulebot/internal/schedule"
	"time"

	"github.com/sirupsen/logrus"
)

type ScheduleService interface {
	GetDaySchedule(ctx context.Context, date time.Time) schedule.DayResult
	GetWeekSchedule(ctx context.Context, date time.Time) schedule.WeekResult
	Now() time.Time
	Location() *time.Location
}

type Handler struct {
	scheduleService ScheduleService
	groupName       string
}

func NewHandler(scheduleService ScheduleService, groupName string) *Handler {
	return &Handler{
		scheduleService: scheduleService,
		groupName:       groupName,
	}
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) GetDayScheduleHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	result := h.scheduleService.GetDaySchedule(r.Context(), date)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetWeekICSHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	week := h.scheduleService.GetWeekSchedule(r.Context(), date)
	data, err := schedule.ExportWeekICS(week, h.groupName)
	if err != nil {
		if errors.Is(err, schedule.ErrNoData) {
			http.Error(w, "Нет данных о расписании", http.StatusServiceUnavailable)
			return
		}
		logrus.Errorf("Ошибка API при формировании календаря: %v", err)
		http.Error(w, "Ошибка при формировании календаря", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule-`+week.Monday.Format("2006-01-02")+`.ics"`)
	w.Write([]byte(data))
}

func (h *Handler) parseDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return h.scheduleService.Now(), true
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, h.scheduleService.Location())
	if err != nil {
		http.Error(w, "Некорректный формат даты (ожидается YYYY-MM-DD)", http.StatusBadRequest)
		return time.Time{}, false
	}
	return date, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Ошибка API при сериализации ответа в JSON: %v", err)
	}
}
