package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
postgres:
  dsn: "postgres://localhost/yatube"
auth:
  secret: "s3cret"
  token_ttl: 12h
posts:
  per_page: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err, "Ошибка при загрузке конфигурации")
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/yatube", cfg.Postgres.DSN)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, Duration(12*time.Hour), cfg.Auth.TokenTTL)
	assert.Equal(t, 5, cfg.Posts.PerPage)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  secret: "s3cret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port, "Порт по умолчанию не применился")
	assert.Equal(t, Duration(24*time.Hour), cfg.Auth.TokenTTL, "TTL по умолчанию не применился")
	assert.Equal(t, 10, cfg.Posts.PerPage, "Размер страницы по умолчанию не применился")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
auth:
  secret: "from-file"
`)

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("AUTH_SECRET", "from-env")
	t.Setenv("POSTGRES_DSN", "postgres://env/yatube")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port, "Переменная окружения должна перекрывать файл")
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, "postgres://env/yatube", cfg.Postgres.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	assert.Error(t, err, "Ожидалась ошибка для отсутствующего файла")
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
auth:
  token_ttl: sometimes
`)

	_, err := Load(path)
	assert.Error(t, err, "Ожидалась ошибка для некорректной длительности")
}
