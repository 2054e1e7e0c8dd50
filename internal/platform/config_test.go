package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return t.TempDir()
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	writeFile(t, filepath.Join(dir, ConfigFileName), `
api_url: http://from-file
store: redis
namespace: work
redis:
  addr: localhost:6379
  db: 2
mongo:
  uri: mongodb://file
`)
	writeFile(t, filepath.Join(nested, ".env"), "NOTES_STORE=mongo\nNOTES_MONGO_DB=fromdotenv\nNOTES_API_URL=http://from-dotenv\n")
	t.Setenv(EnvAPIURL, "http://from-env")

	cfg, err := LoadConfig(nested)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.File)
	assert.Equal(t, "http://from-env", cfg.APIURL, "env overrides .env and file")
	assert.Equal(t, "mongo", cfg.Store, ".env overrides file")
	assert.Equal(t, "fromdotenv", cfg.Mongo.Database)
	assert.Equal(t, "mongodb://file", cfg.Mongo.URI)
	assert.Equal(t, "work", cfg.Namespace)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		dir := isolate(t)
		writeFile(t, filepath.Join(dir, ConfigFileName), "store: [unterminated\n")
		_, err := LoadConfig(dir)
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("bad redis db", func(t *testing.T) {
		dir := isolate(t)
		t.Setenv(EnvRedisDB, "zero")
		_, err := LoadConfig(dir)
		assert.ErrorContains(t, err, EnvRedisDB)
	})
}

func TestWithConfig_LaterOptionsWin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIURL = "http://cfg"
	cfg.Store = "memory"
	cfg.StorePath = "/tmp/session.json"

	o := buildOptions([]Option{WithConfig(cfg), WithBaseURL("http://flag")})
	assert.Equal(t, "http://flag", o.baseURL)
	assert.Equal(t, "memory", o.adapter)
	assert.Equal(t, "/tmp/session.json", o.config["store_path"])
}
