package mysql

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"
	"time"

	sqlitedriver "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/booknotes/internal/infrastructure/config"
)

// NewDB opens the configured database and applies the schema.
// Supported drivers: mysql (default), postgres, sqlite.
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, err
	}

	log.Info("database connected",
		zap.String("driver", cfg.Database.Driver),
		zap.String("dbname", cfg.Database.DBName))

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

// Open connects and configures the pool without migrating
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// one writer; an in-memory database lives on a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql", "":
		return mysql.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		if err := registerSQLiteLower(); err != nil {
			return nil, err
		}
		dsn := cfg.DSN()
		if dsn == "" {
			dsn = ":memory:"
		}
		return sqlite.Open(dsn + sqlitePragmas(dsn)), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %q", cfg.Driver)
	}
}

var (
	sqliteLowerOnce sync.Once
	sqliteLowerErr  error
)

// registerSQLiteLower replaces SQLite's ASCII-only lower() with a
// Unicode case fold, matching what MySQL and PostgreSQL do.
// It must run before the first sqlite connection is opened.
func registerSQLiteLower() error {
	sqliteLowerOnce.Do(func() {
		sqliteLowerErr = sqlitedriver.RegisterDeterministicScalarFunction("lower", 1, sqliteLower)
		if sqliteLowerErr != nil {
			sqliteLowerErr = fmt.Errorf("register sqlite lower: %w", sqliteLowerErr)
		}
	})
	return sqliteLowerErr
}

func sqliteLower(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

func sqlitePragmas(dsn string) string {
	sep := "?"
	for _, c := range dsn {
		if c == '?' {
			sep = "&"
			break
		}
	}
	return sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// AutoMigrate creates or updates the tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&ReviewModel{},
		&NoteModel{},
		&EditorModel{},
	)
}

// =========================================
// Models
// =========================================

// BookModel books table
type BookModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"index;size:200;not null"`
	Author      string    `gorm:"size:100;not null;default:''"`
	Description string    `gorm:"type:text"`
	ISBN        string    `gorm:"column:isbn;index;size:20;not null;default:''"`
	CoverURL    string    `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (BookModel) TableName() string {
	return "books"
}

// ReviewModel reviews table; book_id is unique (one review per book)
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"uniqueIndex;not null"`
	Book      BookModel `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT"`
	Rating    int       `gorm:"index;not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	DateRead  time.Time `gorm:"type:date;index;not null"`
	Body      string    `gorm:"column:review;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ReviewModel) TableName() string {
	return "reviews"
}

// NoteModel notes table
type NoteModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"index;not null"`
	Book      BookModel `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT"`
	Body      string    `gorm:"column:notes;type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NoteModel) TableName() string {
	return "notes"
}

// EditorModel editors table
type EditorModel struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:100;not null"`
	Password  string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EditorModel) TableName() string {
	return "editors"
}
