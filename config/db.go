package config

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ConnectDB opens the configured database. MySQL in deployment; the sqlite
// driver exists for local runs and the test suites.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
	case "mysql", "":
		return gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
