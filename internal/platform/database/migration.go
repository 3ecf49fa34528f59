package database

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationLogger adapts an ectologger.Logger to golang-migrate's Logger
// interface.
type MigrationLogger struct {
	ectologger.Logger
}

func (l MigrationLogger) Verbose() bool { return true }

func (l MigrationLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}

// MigrationConfig controls how the schema is brought up to date at startup.
type MigrationConfig struct {
	MigrationFolderPath string
	Version             uint // 0 means "latest"
	Force               int  // non-zero forces the schema_migrations table to this version first
}

// MigrationService runs golang-migrate against the configured folder.
type MigrationService struct {
	config *MigrationConfig
	logger ectologger.Logger
}

func NewMigrationService(logger ectologger.Logger, config *MigrationConfig) *MigrationService {
	return &MigrationService{config: config, logger: logger}
}

func (ms *MigrationService) resolveMigrationFolder() string {
	if _, err := os.Stat(ms.config.MigrationFolderPath); err == nil {
		return ms.config.MigrationFolderPath
	}
	wd, _ := os.Getwd()
	candidate := wd + "/" + ms.config.MigrationFolderPath
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ms.config.MigrationFolderPath
}

// Migrate applies pending migrations (or forces/migrates to a specific
// version when configured) against an already-opened database driver.
func (ms *MigrationService) Migrate(databaseName string, driver migratedb.Driver) error {
	folder := ms.resolveMigrationFolder()
	if _, err := os.Stat(folder); err != nil {
		return fmt.Errorf("migration folder %s does not exist: %w", folder, err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+folder, databaseName, driver)
	if err != nil {
		ms.logger.WithError(err).Error("failed to create migrate instance")
		return err
	}
	m.Log = MigrationLogger{Logger: ms.logger}

	if ms.config.Force != 0 {
		if err := m.Force(ms.config.Force); err != nil {
			ms.logger.WithError(err).Errorf("failed to force database to version %d", ms.config.Force)
			return err
		}
	}

	start := time.Now()
	var runErr error
	if ms.config.Version != 0 {
		runErr = m.Migrate(ms.config.Version)
	} else {
		runErr = m.Up()
	}
	ms.logger.Infof("database migrations finished in %v", time.Since(start))

	if runErr == nil || runErr == migrate.ErrNoChange {
		ms.logger.Info("schema is up to date")
		return nil
	}

	if strings.Contains(runErr.Error(), "no migration found for version") {
		ms.logger.WithError(runErr).Error("migration version not found; refusing to guess a target, leave schema_migrations as-is")
	}

	ms.logger.WithError(runErr).Error("database migration failed")
	return runErr
}
