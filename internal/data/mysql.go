package data

import (
	"fmt"
	"time"

	"github.com/small-creator/naverland-ho-tele/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewMySQLClient creates the GORM client for the optional extraction-history
// database. History is an opt-in feature: with no DSN configured the client is
// nil and the history recorder degrades to a no-op.
func NewMySQLClient(c *conf.Data, l log.Logger) (*gorm.DB, func(), error) {
	helper := log.NewHelper(l)

	if c == nil || c.Database == nil || c.Database.Source == "" {
		helper.Info("no database configured, extraction history disabled")
		return nil, func() {}, nil
	}

	gormLogger := logger.New(
		&gormLogAdapter{helper: helper},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(mysql.Open(c.Database.Source), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		helper.Errorf("failed to connect to MySQL: %v", err)
		return nil, nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		helper.Errorf("failed to get sql.DB: %v", err)
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		helper.Errorf("failed to ping MySQL: %v", err)
		return nil, nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := db.AutoMigrate(&ExtractionLog{}); err != nil {
		helper.Errorf("failed to migrate extraction_logs: %v", err)
		return nil, nil, fmt.Errorf("failed to migrate extraction_logs: %w", err)
	}

	helper.Info("MySQL connection established")

	cleanup := func() {
		helper.Info("closing MySQL connection")
		if err := sqlDB.Close(); err != nil {
			helper.Errorf("failed to close MySQL: %v", err)
		}
	}

	return db, cleanup, nil
}

// gormLogAdapter adapts Kratos log.Helper to the GORM logger interface.
type gormLogAdapter struct {
	helper *log.Helper
}

// Printf implements the GORM logger writer interface.
func (a *gormLogAdapter) Printf(format string, args ...interface{}) {
	a.helper.Warnf(format, args...)
}
