package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("сохранённое расписание отсутствует")

// Store хранит последний успешно полученный ответ API в единственном слоте.
type Store interface {
	Save(ctx context.Context, payload []byte) error
	Load(ctx context.Context) ([]byte, time.Time, error)
}

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save пишет во временный файл и переименовывает его, чтобы читатель
// никогда не увидел частично записанный кэш.
func (s *FileStore) Save(ctx context.Context, payload []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("не удалось создать временный файл кэша: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("не удалось записать кэш: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("не удалось сбросить кэш на диск: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("не удалось закрыть файл кэша: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("не удалось заменить файл кэша: %w", err)
	}

	logrus.Debugf("Кэш расписания сохранён в %s (%d байт)", s.path, len(payload))
	return nil
}

func (s *FileStore) Load(ctx context.Context) ([]byte, time.Time, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, time.Time{}, ErrCacheMiss
		}
		return nil, time.Time{}, fmt.Errorf("не удалось прочитать кэш: %w", err)
	}

	savedAt := time.Now()
	if info, err := os.Stat(s.path); err == nil {
		savedAt = info.ModTime()
	}
	return payload, savedAt, nil
}

const (
	cacheSlot = "group_schedule"

	createCacheTable = `
		CREATE TABLE IF NOT EXISTS schedule_cache (
			slot TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			saved_at TIMESTAMP NOT NULL
		)
	`
)

// SQLStore хранит кэш в таблице schedule_cache (postgres или sqlite3).
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(ctx context.Context, db *sqlx.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, createCacheTable); err != nil {
		return nil, fmt.Errorf("не удалось создать таблицу кэша: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Save(ctx context.Context, payload []byte) error {
	query := s.db.Rebind(`
		INSERT INTO schedule_cache (slot, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`)

	_, err := s.db.ExecContext(ctx, query, cacheSlot, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("не удалось сохранить кэш расписания: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) ([]byte, time.Time, error) {
	query := s.db.Rebind(`SELECT payload, saved_at FROM schedule_cache WHERE slot = ?`)

	var record struct {
		Payload string    `db:"payload"`
		SavedAt time.Time `db:"saved_at"`
	}
	err := s.db.GetContext(ctx, &record, query, cacheSlot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrCacheMiss
		}
		return nil, time.Time{}, fmt.Errorf("не удалось прочитать кэш расписания: %w", err)
	}
	return []byte(record.Payload), record.SavedAt, nil
}
