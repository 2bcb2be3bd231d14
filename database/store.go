package database

import (
	"context"
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite = "sqlite" // embedded sqlite file
	DriverMemory = "memory" // in-memory sqlite (tests / ephemeral)
)

// Store is the data-access handle passed to every repository.
type Store interface {
	// DB returns a handle scoped to ctx for queries and single statements.
	DB(ctx context.Context) *gorm.DB
	// Transaction runs fn in one transaction; any error rolls everything back.
	// Inside fn only tx may be used.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
	Close() error
	Driver() string
}

type gormStore struct {
	db     *gorm.DB
	driver string
	log    *zap.Logger
}

func (s *gormStore) DB(ctx context.Context) *gorm.DB { return s.db.WithContext(ctx) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("db.DB(): %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.log.Info("closing store", zap.String("driver", s.driver))
	return sqlDB.Close()
}

func (s *gormStore) Driver() string { return s.driver }

// fileStore keeps its data in a sqlite file on disk.
type fileStore struct {
	gormStore
	path string
}

// memoryStore lives in one pinned connection; closing it drops the data.
type memoryStore struct {
	gormStore
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
}

func NewFileStore(path string, log *zap.Logger) (Store, error) {
	if path == "" {
		path = "canefarm.db"
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	log.Info("store opened", zap.String("driver", DriverSQLite), zap.String("path", path))
	return &fileStore{gormStore: gormStore{db: db, driver: DriverSQLite, log: log}, path: path}, nil
}

func NewMemoryStore(log *zap.Logger) (Store, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	log.Debug("store opened", zap.String("driver", DriverMemory))
	return &memoryStore{gormStore: gormStore{db: db, driver: DriverMemory, log: log}}, nil
}

// Open selects a store implementation by driver name (default sqlite).
func Open(driver, path string, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch strings.ToLower(driver) {
	case "", DriverSQLite:
		return NewFileStore(path, log)
	case DriverMemory:
		return NewMemoryStore(log)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
