package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"schedulebot/internal/timetable"
	"schedulebot/pkg/config"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrUpstreamStatus = errors.New("сервер расписания вернул ошибку")

const maxBodySize = 10 << 20

type Origin int

const (
	Unavailable Origin = iota
	Live
	Cached
)

func (o Origin) String() string {
	switch o {
	case Live:
		return "live"
	case Cached:
		return "cached"
	default:
		return "unavailable"
	}
}

func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Fetched — документ и момент, на который верно его поле current_week.
type Fetched struct {
	Document   *timetable.Document
	ObservedAt time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context) (*Fetched, Origin)
}

type Source struct {
	url     string
	timeout time.Duration
	client  *http.Client
	store   Store
	now     func() time.Time
}

func NewSource(cfg *config.Config, store Store) *Source {
	return &Source{
		url:     cfg.ScheduleAPIURL,
		timeout: cfg.APITimeout,
		client:  &http.Client{},
		store:   store,
		now:     time.Now,
	}
}

// Fetch делает одну попытку запроса к API, при неудаче читает кэш.
// Ошибки не возвращаются: результат всегда описывается Origin.
func (s *Source) Fetch(ctx context.Context) (*Fetched, Origin) {
	payload, doc, err := s.fetchLive(ctx)
	if err == nil {
		if err := s.store.Save(ctx, payload); err != nil {
			logrus.Warnf("Не удалось обновить кэш расписания: %v", err)
		}
		return &Fetched{Document: doc, ObservedAt: s.now()}, Live
	}

	logrus.Warnf("Не удалось получить расписание из API, используется кэш: %v", err)

	payload, savedAt, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			logrus.Warn("Кэш расписания пуст")
		} else {
			logrus.Errorf("Ошибка чтения кэша расписания: %v", err)
		}
		return nil, Unavailable
	}

	doc, err = timetable.ParseDocument(payload)
	if err != nil {
		logrus.Errorf("Кэш расписания повреждён: %v", err)
		return nil, Unavailable
	}

	return &Fetched{Document: doc, ObservedAt: savedAt}, Cached
}

func (s *Source) fetchLive(ctx context.Context) ([]byte, *timetable.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка при создании запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка при запросе к API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("%w: статус %d", ErrUpstreamStatus, resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка при чтении ответа API: %w", err)
	}

	doc, err := timetable.ParseDocument(payload)
	if err != nil {
		return nil, nil, err
	}

	return payload, doc, nil
}
