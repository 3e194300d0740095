package email

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSender(t *testing.T) {
	var buf bytes.Buffer
	sender := NewWriterSender(&buf)

	require.NoError(t, sender.Send(context.Background(), testMessage()))

	output := buf.String()
	assert.Contains(t, output, "EMAIL (dev mode")
	assert.Contains(t, output, "To:      ops@example.com, dev@example.com")
	assert.Contains(t, output, "Subject: Error Log From tests")
	assert.Contains(t, output, "2 events")
}

func TestWriterSenderCanceled(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, NewWriterSender(&buf).Send(ctx, testMessage()))
	assert.Empty(t, buf.String())
}

func TestSendersImplementInterface(t *testing.T) {
	var _ Sender = (*SMTPSender)(nil)
	var _ Sender = (*ResendSender)(nil)
	var _ Sender = (*WriterSender)(nil)
	assert.NotNil(t, NewResendSender("re_test"))
}
