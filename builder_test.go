package basiclogger

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jufman/basiclogger/email"
)

func TestBuilderWithoutSettings(t *testing.T) {
	logger, err := NewBuilder().BaseDir(t.TempDir()).Build()
	require.NoError(t, err)
	assert.False(t, logger.state.Loaded.Load(), "no settings means no Load")
}

func TestBuilderSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, SaveSettings(path, alertSettings()))

	logger, err := NewBuilder().
		BaseDir(dir).
		SettingsFile(path).
		Override("email_alert_log_level=critical", "port=2525").
		Build()
	require.NoError(t, err)
	defer logger.Unload()

	s := logger.Settings()
	assert.Equal(t, LevelCritical, s.AlertThreshold)
	assert.Equal(t, 2525, s.Port)
	assert.True(t, s.EmailEnabled)
}

func TestBuilderSettingsValueWithOverride(t *testing.T) {
	base := DefaultSettings()
	logger, err := NewBuilder().
		BaseDir(t.TempDir()).
		Settings(base).
		Override("log_format=json").
		Build()
	require.NoError(t, err)
	defer logger.Unload()

	assert.Equal(t, "json", logger.Settings().LogFormat)
	assert.Equal(t, "txt", base.LogFormat, "caller settings are not modified")
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
	}{
		{"empty base dir", NewBuilder().BaseDir("")},
		{"tiny flush interval", NewBuilder().FlushInterval(time.Microsecond)},
		{"nil observer", NewBuilder().Observer(nil)},
		{"nil settings", NewBuilder().Settings(nil)},
		{"bad override", NewBuilder().BaseDir(t.TempDir()).Settings(DefaultSettings()).Override("port=x")},
		{"missing file", NewBuilder().BaseDir(t.TempDir()).SettingsFile("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := tt.builder.Build()
			assert.Error(t, err)
			assert.Nil(t, logger)
		})
	}
}

func TestBuilderTransportSelection(t *testing.T) {
	tests := []struct {
		transport string
		check     func(t *testing.T, s email.Sender)
	}{
		{TransportSMTP, func(t *testing.T, s email.Sender) {
			smtpSender, ok := s.(*email.SMTPSender)
			require.True(t, ok)
			assert.Equal(t, "smtp.example.com:587", smtpSender.Addr())
		}},
		{TransportResend, func(t *testing.T, s email.Sender) {
			assert.IsType(t, &email.ResendSender{}, s)
		}},
		{TransportWriter, func(t *testing.T, s email.Sender) {
			assert.IsType(t, &email.WriterSender{}, s)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.transport, func(t *testing.T) {
			s := alertSettings()
			s.Transport = tt.transport
			s.ResendAPIKey = "re_test"

			logger, err := NewBuilder().BaseDir(t.TempDir()).Settings(s).Build()
			require.NoError(t, err)
			defer logger.Unload()

			tt.check(t, logger.sender)
		})
	}
}

func TestBuilderSenderOverride(t *testing.T) {
	var buf bytes.Buffer
	writer := email.NewWriterSender(&buf)

	logger, err := NewBuilder().
		BaseDir(t.TempDir()).
		Sender(writer).
		Settings(alertSettings()).
		Build()
	require.NoError(t, err)

	logger.LogEvent("needs attention", LevelCritical)
	require.NoError(t, logger.DispatchAlerts())
	require.NoError(t, logger.Unload())

	assert.Contains(t, buf.String(), "To:      ops@example.com, dev@example.com")
	assert.Contains(t, buf.String(), "needs attention")
}

func TestSMTPTLSModeFromPort(t *testing.T) {
	tests := []struct {
		port     int
		useTLS   bool
		implicit bool
	}{
		{587, true, false},
		{465, true, true},
		{465, false, false},
		{25, false, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d tls=%t", tt.port, tt.useTLS), func(t *testing.T) {
			s := alertSettings()
			s.Port = tt.port
			s.UseTLS = tt.useTLS

			sender, ok := New().newSender(s).(*email.SMTPSender)
			require.True(t, ok)
			assert.Equal(t, tt.useTLS, sender.Config().UseTLS)
			assert.Equal(t, tt.implicit, sender.Config().ImplicitTLS)
		})
	}
}
