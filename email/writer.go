package email

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// WriterSender prints messages to a writer instead of sending them.
// Useful for development and testing
type WriterSender struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSender creates a sender printing to w
func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{w: w}
}

// Send prints the message envelope and plain text body
func (s *WriterSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintf(s.w, `
================================================================================
EMAIL (dev mode - not actually sent)
================================================================================
From:    %s
To:      %s
Subject: %s
--------------------------------------------------------------------------------
%s
================================================================================
`, msg.From, strings.Join(msg.To, ", "), msg.Subject, msg.Text)
	return err
}
