package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: sqlite
  path: ":memory:"
session:
  ttl: 2h
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN())
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)

	// defaults
	assert.Equal(t, "booknotes_session", cfg.Session.CookieName)
	assert.Equal(t, 3*time.Second, cfg.Cover.Timeout)
	assert.Equal(t, uint32(5), cfg.Cover.BreakerFailures)
	assert.Equal(t, "booknotes.events", cfg.MQ.Exchange)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("BOOKNOTES_SERVER_PORT", "7070")
	t.Setenv("BOOKNOTES_DATABASE_DRIVER", "postgres")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"bad port":       "server:\n  port: 70000\n",
		"bad driver":     "database:\n  driver: oracle\n",
		"release secret": "server:\n  mode: release\n",
		"release admin seed": "server:\n  mode: release\nsession:\n  secret: real-secret\n" +
			"editor:\n  username: admin\n  password: admin\n",
		"bad trusted proxy": "server:\n  trusted_proxies: [\"not-an-ip\"]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, "server:\n  mode: release\nsession:\n  secret: real-secret\n"))
	assert.NoError(t, err)

	cfg, err := Load(writeConfig(t, "server:\n  mode: release\n  trusted_proxies: [\"10.0.0.0/8\"]\n"+
		"session:\n  secret: real-secret\neditor:\n  username: admin\n  password: Long-Unique-1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Server.TrustedProxies)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Driver: "mysql", User: "u", Password: "p", Host: "h", Port: 3306,
		DBName: "db", Charset: "utf8mb4", ParseTime: true, Loc: "Local",
	}
	assert.Equal(t, "u:p@tcp(h:3306)/db?charset=utf8mb4&parseTime=true&loc=Local", d.DSN())

	d.Driver = "postgres"
	d.Port = 5432
	d.SSLMode = "disable"
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=db sslmode=disable TimeZone=UTC", d.DSN())
}
