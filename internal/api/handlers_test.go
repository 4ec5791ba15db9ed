package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"schedulebot/internal/schedule"
	"schedulebot/internal/timetable"
	"strings"
	"testing"
	"time"
)

var today = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

type mockScheduleService struct {
	day      schedule.DayResult
	week     schedule.WeekResult
	lastDate time.Time
}

func (m *mockScheduleService) GetDaySchedule(_ context.Context, date time.Time) schedule.DayResult {
	m.lastDate = date
	return m.day
}

func (m *mockScheduleService) GetWeekSchedule(_ context.Context, date time.Time) schedule.WeekResult {
	m.lastDate = date
	return m.week
}

func (m *mockScheduleService) Now() time.Time { return today }
func (m *mockScheduleService) Location() *time.Location { return time.UTC }

func serve(t *testing.T, svc *mockScheduleService, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewHandler(svc, "ИС231"), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(t, &mockScheduleService{}, http.MethodGet, "/api/health")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected health response %d %s", w.Code, w.Body.String())
	}
}

func TestGetDaySchedule(t *testing.T) {
	svc := &mockScheduleService{day: schedule.DayResult{
		Date:   today,
		Status: schedule.StatusLessons,
		Origin: schedule.Cached,
		Schedule: timetable.DaySchedule{Weekday: 5, Parity: 1, Lessons: []timetable.DayLesson{
			{Index: 2, Time: "09:55-11:25", Subject: "Algorithms"},
		}},
	}}

	w := serve(t, svc, http.MethodGet, "/api/schedule/day?date=2026-10-19")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if got := svc.lastDate.Format("2006-01-02"); got != "2026-10-19" {
		t.Errorf("unexpected requested date %s", got)
	}

	var body struct {
		Status   string `json:"status"`
		Origin   string `json:"origin"`
		Schedule struct {
			Lessons []timetable.DayLesson `json:"lessons"`
		} `json:"schedule"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Status != "lessons" || body.Origin != "cached" || len(body.Schedule.Lessons) != 1 {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestGetDaySchedule_DefaultsToToday(t *testing.T) {
	svc := &mockScheduleService{day: schedule.DayResult{Status: schedule.StatusNoData}}
	w := serve(t, svc, http.MethodGet, "/api/schedule/day")
	if w.Code != http.StatusOK || !svc.lastDate.Equal(today) {
		t.Errorf("expected today's schedule, got %d for %v", w.Code, svc.lastDate)
	}
	if !strings.Contains(w.Body.String(), `"no_data"`) {
		t.Errorf("no-data outcome must be reported: %s", w.Body.String())
	}
}

func TestGetDaySchedule_BadDate(t *testing.T) {
	w := serve(t, &mockScheduleService{}, http.MethodGet, "/api/schedule/day?date=16.10.2026")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetWeekICS(t *testing.T) {
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	svc := &mockScheduleService{week: schedule.WeekResult{
		Monday: monday,
		Origin: schedule.Live,
		Days: []schedule.DayResult{{
			Date:   monday,
			Status: schedule.StatusLessons,
			Schedule: timetable.DaySchedule{Weekday: 1, Lessons: []timetable.DayLesson{
				{Index: 1, Time: "08:15-09:45", Subject: "Physics", Room: "112"},
			}},
		}},
	}}

	w := serve(t, svc, http.MethodGet, "/api/schedule/week.ics")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "SUMMARY:Physics") {
		t.Errorf("calendar misses the lesson:\n%s", w.Body.String())
	}
}

func TestGetWeekICS_NoData(t *testing.T) {
	svc := &mockScheduleService{week: schedule.WeekResult{Origin: schedule.Unavailable}}
	w := serve(t, svc, http.MethodGet, "/api/schedule/week.ics")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestWebhookRouteOnlyWhenConfigured(t *testing.T) {
	w := serve(t, &mockScheduleService{}, http.MethodPost, "/webhook")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without webhook, got %d", w.Code)
	}

	called := false
	router := NewRouter(NewHandler(&mockScheduleService{}, "ИС231"), func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/webhook", nil))
	if !called {
		t.Errorf("webhook handler was not invoked")
	}
}
