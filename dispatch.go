package basiclogger

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/jufman/basiclogger/email"
)

// newSender builds the transport selected by the settings, unless one was injected
func (l *Logger) newSender(s *Settings) email.Sender {
	if l.senderOverride != nil {
		return l.senderOverride
	}

	switch s.Transport {
	case TransportResend:
		return email.NewResendSender(s.ResendAPIKey)
	case TransportWriter:
		return email.NewWriterSender(os.Stdout)
	default:
		return email.NewSMTPSender(email.SMTPConfig{
			Host:         s.SMTPHost,
			Port:         s.Port,
			UseTLS:       s.UseTLS,
			ImplicitTLS:  s.UseTLS && s.Port == email.ImplicitTLSPort,
			RequiresAuth: s.RequiresAuth,
			Username:     s.Username,
			Password:     s.Password,
			Timeout:      s.SMTPTimeout(),
		})
	}
}

// dispatchAlerts renders a drained email batch and sends it as one message.
// The batch is not requeued when the send fails
func (l *Logger) dispatchAlerts(events []Event) error {
	s := l.settings.Load()
	if s == nil {
		return ErrNotLoaded
	}

	r := newReport(events, s, l.instanceID, l.now())
	html, err := r.HTML()
	if err != nil {
		l.alertFailed(len(events), err)
		return err
	}

	msg := email.Message{
		From:      s.SenderAddress,
		To:        slices.Clone(s.Recipients),
		Subject:   s.Subject,
		HTML:      html,
		Text:      r.Text(),
		MessageID: fmt.Sprintf("%s.%d@%s", l.instanceID, l.state.reportSeq.Add(1), r.Host),
		Date:      l.now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.SMTPTimeout())
	defer cancel()

	if err := l.sender.Send(ctx, msg); err != nil {
		err = fmtErrorf("failed to send alert report: %w", err)
		l.alertFailed(len(events), err)
		return err
	}

	l.state.EmailsSent.Add(1)
	return nil
}

// alertFailed records a lost batch and reports it as a System event
func (l *Logger) alertFailed(count int, err error) {
	l.state.EmailsFailed.Add(1)
	l.state.DroppedAlerts.Add(uint64(count))
	l.internalLog("error - %v\n", err)
	l.Logf(LevelSystem, "Failed to send log email with %d events: %v", count, err)
}
