package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sheetRow is the sqlite representation of one appended row. The
// autoincrement ID preserves append order within a sheet; cells are kept as
// a JSON array so every sheet shares one schema regardless of width.
type sheetRow struct {
	ID        uint   `gorm:"primaryKey"`
	Sheet     string `gorm:"index;not null"`
	Cells     string `gorm:"not null"`
	CreatedAt time.Time
}

// SQLiteStore implements Store on a local database. It is the backend used
// when no spreadsheet is configured.
type SQLiteStore struct {
	database *gorm.DB
	logger   *zap.Logger
}

func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000", path)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := database.AutoMigrate(&sheetRow{}); err != nil {
		return nil, fmt.Errorf("migrate sheet rows: %w", err)
	}
	return &SQLiteStore{database: database, logger: logger}, nil
}

func (sqliteStore *SQLiteStore) Append(ctx context.Context, sheet string, row Row) error {
	cells, err := json.Marshal([]string(row))
	if err != nil {
		return fmt.Errorf("encode row cells: %w", err)
	}
	record := sheetRow{Sheet: sheet, Cells: string(cells)}
	if err := sqliteStore.database.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("append to sheet %q: %w", sheet, err)
	}
	return nil
}

func (sqliteStore *SQLiteStore) Rows(ctx context.Context, sheet string) ([]Row, error) {
	var records []sheetRow
	err := sqliteStore.database.WithContext(ctx).
		Where("sheet = ?", sheet).
		Order("id asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %q: %w", sheet, err)
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		var cells []string
		if err := json.Unmarshal([]byte(record.Cells), &cells); err != nil {
			sqliteStore.logger.Warn("skipping row with unreadable cells",
				zap.String("sheet", sheet), zap.Uint("id", record.ID))
			continue
		}
		rows = append(rows, Row(cells))
	}
	return rows, nil
}
