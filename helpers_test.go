package basiclogger

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jufman/basiclogger/email"
)

// captureSender records messages instead of sending them
type captureSender struct {
	mu   sync.Mutex
	msgs []email.Message
	err  error
}

func (c *captureSender) Send(ctx context.Context, msg email.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return c.err
}

func (c *captureSender) messages() []email.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]email.Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// alertSettings returns valid settings with alerts enabled
func alertSettings() *Settings {
	s := DefaultSettings()
	s.EmailEnabled = true
	s.AlertThreshold = LevelError
	s.EmailIntervalSeconds = 3600
	s.Recipients = []string{"ops@example.com", "dev@example.com"}
	s.SenderAddress = "logger@example.com"
	s.SMTPHost = "smtp.example.com"
	s.Subject = "Error Log From tests"
	s.AppName = "tests"
	return s
}

// createTestLogger creates a loaded logger in a temp directory with a capturing sender.
// The flush loop runs every 10ms
func createTestLogger(t *testing.T, s *Settings) (*Logger, *captureSender, string) {
	t.Helper()
	tmpDir := t.TempDir()
	sender := &captureSender{}

	logger, err := NewBuilder().
		BaseDir(tmpDir).
		FlushInterval(10 * time.Millisecond).
		Sender(sender).
		Settings(s).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Unload() })

	return logger, sender, tmpDir
}

// readLines returns the lines of a log file, or nil if it does not exist yet
func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}

// userLines drops the System lines written by the logger itself
func userLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		if !strings.Contains(line, "LogLevel: System,") {
			out = append(out, line)
		}
	}
	return out
}

// writeFile creates a file with content under dir
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
