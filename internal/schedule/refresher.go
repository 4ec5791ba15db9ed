package schedule

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher периодически запрашивает API, чтобы кэш оставался свежим
// к моменту, когда сервер АмГУ окажется недоступен.
type Refresher struct {
	cron   *cron.Cron
	source Fetcher
}

func NewRefresher(spec string, source Fetcher) (*Refresher, error) {
	r := &Refresher{
		cron:   cron.New(),
		source: source,
	}

	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return nil, fmt.Errorf("некорректное расписание обновления кэша %q: %w", spec, err)
	}
	return r, nil
}

func (r *Refresher) Start() {
	logrus.Info("Запуск фонового обновления кэша расписания")
	r.cron.Start()
}

func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	logrus.Info("Фоновое обновление кэша остановлено")
}

func (r *Refresher) refresh() {
	_, origin := r.source.Fetch(context.Background())
	if origin != Live {
		logrus.Warnf("Фоновое обновление кэша не удалось, источник: %s", origin)
		return
	}
	logrus.Debug("Кэш расписания обновлён")
}
