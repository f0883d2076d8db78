package repo

import (
	"SkillHub/internal/model"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// SchemaVersion — версия схемы, которую ожидает текущая сборка.
const SchemaVersion = 2

// ErrSchemaTooNew — БД мигрирована более новой версией сервера.
var ErrSchemaTooNew = errors.New("database schema is newer than this build")

// InitDB открывает БД по DSN (postgres или SQLite) и применяет миграции.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		Logger:         newGormLogger(os.Stdout),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if IsPostgresDSN(dsn) {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(25)
	} else {
		// SQLite: один писатель
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// newGormLogger пишет предупреждения, ошибки и медленные запросы; gorm.ErrRecordNotFound не пишет.
func newGormLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// IsPostgresDSN определяет postgres по URL-схеме или key=value DSN.
func IsPostgresDSN(dsn string) bool {
	d := strings.TrimSpace(strings.ToLower(dsn))
	return strings.HasPrefix(d, "postgres://") ||
		strings.HasPrefix(d, "postgresql://") ||
		strings.HasPrefix(d, "host=")
}

func dialectorFor(dsn string) gorm.Dialector {
	if IsPostgresDSN(dsn) {
		return postgres.Open(dsn)
	}
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	// modernc.org/sqlite регистрирует драйвер под именем "sqlite"
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
}

// Migrate создаёт таблицы и сверяет версию схемы. Выполняется один раз при старте.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Skill{}, &model.SkillLike{}, &model.Blob{}, &model.SchemaVersion{}); err != nil {
		return err
	}

	var current int
	if err := db.Model(&model.SchemaVersion{}).Select("COALESCE(MAX(version), 0)").Scan(&current).Error; err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case current > SchemaVersion:
		return fmt.Errorf("%w: db=%d build=%d", ErrSchemaTooNew, current, SchemaVersion)
	case current < SchemaVersion:
		return db.Create(&model.SchemaVersion{Version: SchemaVersion, AppliedAt: time.Now().UTC()}).Error
	}
	return nil
}
