package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	CacheDriverFile     = "file"
	CacheDriverPostgres = "postgres"
	CacheDriverSQLite   = "sqlite3"

	BotModePolling = "polling"
	BotModeWebhook = "webhook"
)

type Config struct {
	TelegramToken    string
	ScheduleAPIURL   string
	GroupName        string
	APITimeout       time.Duration
	Location         *time.Location
	CacheDriver      string
	CachePath        string
	SQLitePath       string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	SlotTimes        string
	CacheRefreshCron string
	BotMode          string
	ServerHost       string
	ServerPort       string
	LogLevel         logrus.Level
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Не найден файл .env")
	}

	return &Config{
		TelegramToken:    getEnv("TELEGRAM_TOKEN", ""),
		ScheduleAPIURL:   getEnv("SCHEDULE_API_URL", "https://cabinet.amursu.ru/public_api/group/1671"),
		GroupName:        getEnv("GROUP_NAME", "ИС231"),
		APITimeout:       getDuration("API_TIMEOUT", 30*time.Second),
		Location:         getLocation("TIMEZONE", "Asia/Yakutsk"),
		CacheDriver:      getEnv("CACHE_DRIVER", CacheDriverFile),
		CachePath:        getEnv("CACHE_PATH", "schedule_cache.json"),
		SQLitePath:       getEnv("SQLITE_PATH", "schedule.db"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "schedulebot"),
		SlotTimes:        getEnv("SLOT_TIMES", ""),
		CacheRefreshCron: getEnv("CACHE_REFRESH_CRON", ""),
		BotMode:          getEnv("BOT_MODE", BotModePolling),
		ServerHost:       getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getLevel("LOG_LEVEL", logrus.InfoLevel),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logrus.Warnf("Некорректное значение %s=%q, используется %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getLocation(key, defaultValue string) *time.Location {
	name := getEnv(key, defaultValue)
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("Не удалось загрузить часовой пояс %q: %v. Используется локальное время", name, err)
		return time.Local
	}
	return loc
}

func getLevel(key string, defaultValue logrus.Level) logrus.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	level, err := logrus.ParseLevel(value)
	if err != nil {
		logrus.Warnf("Некорректный уровень логирования %q, используется %s", value, defaultValue)
		return defaultValue
	}
	return level
}
