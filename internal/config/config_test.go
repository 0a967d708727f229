package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SPREADSHEET_ID", "SHEET_NAME", "GOOGLE_APPLICATION_CREDENTIALS", "PORT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "dogmeet-test"
http:
  port: 8088
google:
  credentials_file: "/secrets/sa.json"
  spreadsheet_id: "${TEST_SHEET_ID}"
render:
  escape_html: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))
	t.Setenv("TEST_SHEET_ID", "sheet-from-env")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "dogmeet-test", cfg.App.Name)
	assert.Equal(t, 8088, cfg.HTTP.Port)
	assert.Equal(t, "sheet-from-env", cfg.Google.SpreadsheetID)
	assert.Equal(t, "Sheet1", cfg.Google.SheetName)
	assert.Equal(t, "public", cfg.HTTP.StaticDir)
	assert.Equal(t, "/thankyou.html", cfg.HTTP.RedirectPath)
	assert.True(t, cfg.Render.EscapeHTML)
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPREADSHEET_ID", "abc123")
	t.Setenv("SHEET_NAME", "Dogs")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")
	t.Setenv("PORT", "4000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.Google.SpreadsheetID)
	assert.Equal(t, "Dogs", cfg.Google.SheetName)
	assert.Equal(t, "/tmp/creds.json", cfg.Google.CredentialsFile)
	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.False(t, cfg.Render.EscapeHTML)
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPREADSHEET_ID", "abc123")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "dogmeet", cfg.App.Name)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
}

func TestLoadConfig_MissingSpreadsheetID(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpreadsheetIDRequired)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPREADSHEET_ID", "abc123")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")
	t.Setenv("PORT", "not-a-port")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("http: [unterminated"), 0o644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		return Config{
			HTTP:   HTTPConfig{Port: 3000},
			Google: GoogleConfig{SpreadsheetID: "id", CredentialsFile: "creds.json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		is      error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{
			name:    "missing spreadsheet id",
			mutate:  func(c *Config) { c.Google.SpreadsheetID = "  " },
			wantErr: true,
			is:      ErrSpreadsheetIDRequired,
		},
		{
			name:    "missing credentials",
			mutate:  func(c *Config) { c.Google.CredentialsFile = "" },
			wantErr: true,
			is:      ErrMissingCredentials,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.HTTP.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "file logging without path",
			mutate:  func(c *Config) { c.Logging.Output = "file" },
			wantErr: true,
		},
		{
			name:    "rate limit without rps",
			mutate:  func(c *Config) { c.RateLimit.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
