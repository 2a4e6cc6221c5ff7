package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "DEBUG", "REQUEST_TIMEOUT", "MONGO_URI", "NEWS_DATABASE",
	"RESOURCES_DATABASE", "RESOURCES_COLLECTION", "NEWSPAPERS", "CATEGORIES",
	"S3_BUCKET", "S3_REGION", "S3_PROFILE", "S3_PREFIX", "S3_USE_PATH_STYLE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "newsup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, "DailyNews", cfg.Mongo.NewsDatabase)
	assert.Equal(t, "Resources", cfg.Mongo.ResourcesDatabase)
	assert.Equal(t, "Daily", cfg.Mongo.ResourcesCollection)
	assert.Equal(t, DefaultCategories, cfg.Categories)
	assert.Empty(t, cfg.Newspapers)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: 6000
request_timeout: 3s
mongo:
  uri: mongodb://db:27017
  news_database: Papers
newspapers: [hindu, toi]
s3:
  bucket: snapshots
  prefix: /daily/
`)

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 6000, cfg.Port)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
		assert.Equal(t, "Papers", cfg.Mongo.NewsDatabase)
		assert.Equal(t, "Resources", cfg.Mongo.ResourcesDatabase)
		assert.Equal(t, []string{"hindu", "toi"}, cfg.Newspapers)
		assert.Equal(t, "snapshots", cfg.S3.Bucket)
		assert.Equal(t, "daily/", cfg.S3KeyPrefix())
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PORT", "7000")
		t.Setenv("NEWSPAPERS", " ie , ht ,, ")
		t.Setenv("S3_USE_PATH_STYLE", "true")
		t.Setenv("REQUEST_TIMEOUT", "bogus")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7000, cfg.Port)
		assert.Equal(t, []string{"ie", "ht"}, cfg.Newspapers)
		assert.True(t, cfg.S3.UsePathStyle)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	})
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	_, err = Load(writeConfig(t, "port: [not a number"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "port: 70000"))
	assert.True(t, errors.Is(err, ErrInvalidPort))
}

func TestS3KeyPrefix(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"/":         "",
		"exports":   "exports/",
		"/a/b/":     "a/b/",
		"  spaced ": "spaced/",
	}
	for in, want := range cases {
		cfg := &Config{S3: S3Config{Prefix: in}}
		assert.Equal(t, want, cfg.S3KeyPrefix(), "prefix %q", in)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
