package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/emoiq/internal/tone"
	"github.com/abhisek/emoiq/internal/validate"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(dir)
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	v, err := NewViper("")
	require.NoError(t, err)

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, tone.DefaultRules(), c.Rules)
	assert.Equal(t, 25, c.Practice.PageSize)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, 3, c.LLM.Retry.MaxAttempts)
	assert.Equal(t, 45*time.Second, c.LLM.Timeout)
	assert.False(t, c.LLM.Enabled())
	assert.Empty(t, c.Remote.ConnString())
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("EMOIQ_RULES_MAX_ATTEMPTS", "8")
	t.Setenv("EMOIQ_LLM_PROVIDER", "gemini")
	t.Setenv("EMOIQ_LLM_GEMINI_API_KEY", "secret")
	t.Setenv("EMOIQ_LLM_TIMEOUT", "5s")
	t.Setenv("EMOIQ_REMOTE_DSN", "postgres://x")

	v, err := NewViper("")
	require.NoError(t, err)
	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 8, c.Rules.MaxAttempts)
	assert.Equal(t, "gemini", c.LLM.Provider)
	assert.Equal(t, "secret", c.LLM.Gemini.APIKey)
	assert.Equal(t, 5*time.Second, c.LLM.Timeout)
	assert.Equal(t, "postgres://x", c.Remote.ConnString())
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "emoiq.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
log:
  format: json
rules:
  solve_tolerance: 5
remote:
  host: db.local
  user: emoiq
  dbname: emoiq
`), 0o600))

	v, err := NewViper(file)
	require.NoError(t, err)
	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, 5, c.Rules.SolveTolerance)
	assert.Equal(t, 7, c.Rules.CloseThreshold)
	assert.Equal(t,
		"host=db.local user=emoiq password= dbname=emoiq port=5432 sslmode=disable TimeZone=UTC",
		c.Remote.ConnString())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("EMOIQ_RULES_NEAR_THRESHOLD", "3")
	t.Setenv("EMOIQ_LOG_LEVEL", "loud")

	v, err := NewViper("")
	require.NoError(t, err)
	_, err = Load(v)

	var fe *validate.FieldsError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "rules.near_threshold")
	assert.Contains(t, fe.Fields, "log.level")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.WithField("date", "2026-01-30").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"date":"2026-01-30"`)
}

func TestNewLogger_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "emoiq.log")
	log, err := NewLogger(LogConfig{Level: "info", Format: "text", File: file}, nil)
	require.NoError(t, err)
	log.Info("to file")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
