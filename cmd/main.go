package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"schedulebot/internal/api"
	"schedulebot/internal/schedule"
	"schedulebot/internal/telegram"
	"schedulebot/internal/timetable"
	"schedulebot/pkg/config"
	"schedulebot/pkg/db"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	cfg := config.LoadConfig()
	logrus.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore := newStore(ctx, cfg)
	defer closeStore()

	slots, err := timetable.ParseSlotTable(cfg.SlotTimes)
	if err != nil {
		logrus.Fatalf("Ошибка в SLOT_TIMES: %v", err)
	}

	source := schedule.NewSource(cfg, store)
	scheduleService := schedule.NewService(source, slots, cfg.Location)

	telegramHandler, err := telegram.NewHandler(cfg, scheduleService)
	if err != nil {
		logrus.Fatalf("Ошибка при инициализации Telegram бота: %v", err)
	}

	if cfg.CacheRefreshCron != "" {
		refresher, err := schedule.NewRefresher(cfg.CacheRefreshCron, source)
		if err != nil {
			logrus.Fatalf("Ошибка при настройке обновления кэша: %v", err)
		}
		refresher.Start()
		defer refresher.Stop()
	}

	var webhook http.HandlerFunc
	if cfg.BotMode == config.BotModeWebhook {
		if err := telegramHandler.SetupWebhook(); err != nil {
			logrus.Fatalf("Ошибка при установке вебхука: %v", err)
		}
		webhook = telegramHandler.HandleWebhook
	} else {
		go telegramHandler.Poll(ctx)
	}

	apiHandler := api.NewHandler(scheduleService, cfg.GroupName)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           api.NewRouter(apiHandler, webhook),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Сервер запущен на порту %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Ошибка при запуске сервера: %v", err)
		}
	}()

	<-ctx.Done()

	logrus.Info("Завершение работы сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Ошибка при остановке сервера: %v", err)
	}

	logrus.Info("Сервер остановлен")
}

func newStore(ctx context.Context, cfg *config.Config) (schedule.Store, func()) {
	if cfg.CacheDriver == config.CacheDriverFile {
		logrus.Infof("Кэш расписания хранится в файле %s", cfg.CachePath)
		return schedule.NewFileStore(cfg.CachePath), func() {}
	}

	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}

	store, err := schedule.NewSQLStore(ctx, database)
	if err != nil {
		database.Close()
		logrus.Fatalf("Ошибка при подготовке кэша в базе данных: %v", err)
	}
	return store, func() { database.Close() }
}
