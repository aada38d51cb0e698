package db

import (
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Migrate применяет goose-миграции из dir через драйвер lib/pq.
func Migrate(dsn, dir string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, dir)
}
