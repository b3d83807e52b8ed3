package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("addr = %q, want :8000", cfg.Server.Addr)
	}
	if cfg.Database.Driver != "mysql" || cfg.Database.Port != 3306 {
		t.Errorf("database defaults = %q:%d", cfg.Database.Driver, cfg.Database.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "override")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 3307 {
		t.Errorf("host:port = %s:%d, want db.internal:3307", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Database.Name != "override" {
		t.Errorf("name = %q, want override", cfg.Database.Name)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  addr: \":9000\"\ndatabase:\n  driver: sqlite\n  name: app.db\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Name != "app.db" {
		t.Errorf("database = %q/%q", cfg.Database.Driver, cfg.Database.Name)
	}
}

func TestDSN(t *testing.T) {
	d := Database{User: "app", Password: "secret", Host: "127.0.0.1", Port: 3306, Name: "tasks"}
	want := "app:secret@tcp(127.0.0.1:3306)/tasks?charset=utf8mb4&parseTime=True&loc=Local"
	if got := d.DSN(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}
