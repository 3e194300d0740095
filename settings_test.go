package basiclogger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullSettings returns settings with every field set away from its default
func fullSettings() *Settings {
	return &Settings{
		EmailEnabled:         true,
		AlertThreshold:       LevelCritical,
		EmailIntervalSeconds: 42,
		Recipients:           []string{"a@example.com", "b@example.com"},
		SMTPHost:             "mail.example.com",
		SenderAddress:        "noreply@example.com",
		RequiresAuth:         true,
		Username:             "mailer",
		Password:             "s3cret",
		Port:                 2525,
		UseTLS:               false,
		SMTPTimeoutSeconds:   12,
		Subject:              "Alerts",
		AppName:              "billing",
		Transport:            TransportSMTP,
		ResendAPIKey:         "re_123",
		LogFolderOverride:    "/var/log/billing",
		LogFormat:            "json",
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.False(t, s.EmailEnabled)
	assert.Equal(t, LevelError, s.AlertThreshold)
	assert.Equal(t, 180, s.EmailIntervalSeconds)
	assert.Equal(t, 587, s.Port)
	assert.True(t, s.UseTLS)
	assert.Equal(t, TransportSMTP, s.Transport)
	assert.Equal(t, "txt", s.LogFormat)
	assert.True(t, strings.HasPrefix(s.Subject, "Error Log From "))
	assert.NoError(t, s.Validate())
}

func TestSettingsRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings"+ext)
			want := fullSettings()

			require.NoError(t, SaveSettings(path, want))
			got, err := LoadSettings(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadJSONSettingsLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LogSettings.json")
	writeFile(t, path, `{
		"SendEmailAlerts": true,
		"EmailAlertLogLevel": "Critical",
		"EmailInterval": 60,
		"EmailAddresses": ["ops@example.com"],
		"EmailServerAddress": "smtp.example.com",
		"SenderAddress": "logger@example.com",
		"RequiresAuth": false,
		"EnableSsl": false,
		"Subject": "Production errors"
	}`)

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.True(t, s.EmailEnabled)
	assert.Equal(t, LevelCritical, s.AlertThreshold)
	assert.Equal(t, 60, s.EmailIntervalSeconds)
	assert.Equal(t, []string{"ops@example.com"}, s.Recipients)
	assert.False(t, s.UseTLS)
	assert.Equal(t, "Production errors", s.Subject)

	// Absent fields keep defaults
	assert.Equal(t, 587, s.Port)
	assert.Equal(t, defaultSMTPTimeoutS, s.SMTPTimeoutSeconds)
	assert.Equal(t, "txt", s.LogFormat)
}

func TestLoadYAMLSettingsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	writeFile(t, path, "email_alert_log_level: system\nport: 25\n")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, LevelSystem, s.AlertThreshold)
	assert.Equal(t, 25, s.Port)
	assert.True(t, s.UseTLS)
	assert.Equal(t, 180, s.EmailIntervalSeconds)
}

func TestLoadTOMLSettingsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, `
[logger]
email_alert_log_level = "critical"
email_addresses = ["x@example.com"]
port = 465
`)

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, LevelCritical, s.AlertThreshold)
	assert.Equal(t, []string{"x@example.com"}, s.Recipients)
	assert.Equal(t, 465, s.Port)
	assert.Equal(t, "txt", s.LogFormat)
	assert.False(t, s.EmailEnabled)
}

func TestLoadSettingsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSettings(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrSettingsNotFound)

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"Port": "not a number"}`)
	_, err = LoadSettings(bad)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), errPrefix))

	badLevel := filepath.Join(dir, "level.json")
	writeFile(t, badLevel, `{"EmailAlertLogLevel": "verbose"}`)
	_, err = LoadSettings(badLevel)
	assert.Error(t, err)
}

func TestSettingsEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LogSettings.json")
	writeFile(t, path, `{"Username": "from-file", "Password": "from-file"}`)
	writeFile(t, filepath.Join(dir, ".env"), "BASICLOGGER_RESEND_API_KEY=re_from_dotenv\n")

	t.Setenv(envSMTPPassword, "from-env")
	t.Setenv(envSMTPUsername, "")
	// godotenv sets variables for the process; restore after the test
	t.Setenv(envResendAPIKey, "")
	require.NoError(t, os.Unsetenv(envResendAPIKey))

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", s.Username, "empty variables do not override")
	assert.Equal(t, "from-env", s.Password)
	assert.Equal(t, "re_from_dotenv", s.ResendAPIKey)
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *Settings)
		wantErr string
	}{
		{"valid alerts", func(s *Settings) {}, ""},
		{"bad threshold", func(s *Settings) { s.AlertThreshold = 5 }, "email_alert_log_level"},
		{"bad transport", func(s *Settings) { s.Transport = "pigeon" }, "invalid transport"},
		{"bad format", func(s *Settings) { s.LogFormat = "xml" }, "invalid log_format"},
		{"bad port", func(s *Settings) { s.Port = 0 }, "port must be between"},
		{"negative timeout", func(s *Settings) { s.SMTPTimeoutSeconds = -1 }, "smtp_timeout_s"},
		{"zero interval", func(s *Settings) { s.EmailIntervalSeconds = 0 }, "email_interval_s"},
		{"no recipients", func(s *Settings) { s.Recipients = nil }, "at least one recipient"},
		{"blank recipient", func(s *Settings) { s.Recipients = []string{" "} }, "cannot be empty"},
		{"no sender", func(s *Settings) { s.SenderAddress = "" }, "sender_address"},
		{"no host", func(s *Settings) { s.SMTPHost = "" }, "email_server_address"},
		{"auth without user", func(s *Settings) { s.RequiresAuth = true }, "username is required"},
		{"resend without key", func(s *Settings) { s.Transport = TransportResend }, "resend_api_key"},
		{"writer needs no sender", func(s *Settings) { s.Transport = TransportWriter; s.SenderAddress = "" }, ""},
		{"disabled alerts skip cross checks", func(s *Settings) { s.EmailEnabled = false; s.Recipients = nil }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := alertSettings()
			tt.modify(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsValidateCombinesErrors(t *testing.T) {
	s := alertSettings()
	s.Port = -1
	s.Transport = "pigeon"

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple settings errors")
	assert.Contains(t, err.Error(), "1. ")
	assert.Contains(t, err.Error(), "2. ")
}

func TestSettingsHelpers(t *testing.T) {
	s := fullSettings()

	clone := s.Clone()
	clone.Recipients[0] = "changed@example.com"
	assert.Equal(t, "a@example.com", s.Recipients[0], "clone does not share recipients")

	assert.Equal(t, "42s", s.EmailInterval().String())
	assert.Equal(t, "12s", s.SMTPTimeout().String())
	s.SMTPTimeoutSeconds = 0
	assert.Equal(t, "30s", s.SMTPTimeout().String())

	assert.Equal(t, "billing", s.ReportAppName())
	s.AppName = ""
	assert.Equal(t, executableName(), s.ReportAppName())
}
