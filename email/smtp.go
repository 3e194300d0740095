package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// ImplicitTLSPort is the submission port that expects TLS from the first byte.
// Settings on this port turn on SMTPConfig.ImplicitTLS
const ImplicitTLSPort = 465

// SMTPConfig holds the connection settings for SMTPSender
type SMTPConfig struct {
	Host         string
	Port         int
	UseTLS       bool // STARTTLS after the greeting
	ImplicitTLS  bool // TLS from the first byte, takes precedence over UseTLS
	RequiresAuth bool // AUTH PLAIN with Username and Password
	Username     string
	Password     string
	Timeout      time.Duration // Dial and per-command bound, 0 for none
	TLSConfig    *tls.Config   // Optional, ServerName defaults to Host
}

// SMTPSender submits messages to a mail server. Each Send uses a fresh connection
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a sender for the given server
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Config returns the connection settings
func (s *SMTPSender) Config() SMTPConfig {
	return s.cfg
}

// Addr returns the host:port the sender connects to
func (s *SMTPSender) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Send delivers msg to all recipients in a single SMTP transaction
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("email: message has no recipients")
	}
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	c, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if s.cfg.Timeout > 0 {
		c.CommandTimeout = s.cfg.Timeout
		c.SubmissionTimeout = s.cfg.Timeout
	}

	if s.cfg.RequiresAuth {
		if err := c.Auth(sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)); err != nil {
			return fmt.Errorf("email: authentication with %s failed: %w", s.Addr(), err)
		}
	}

	if err := c.SendMail(msg.From, msg.To, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("email: failed to send to %s: %w", s.Addr(), err)
	}

	return c.Quit()
}

// dial opens the connection, honoring the context deadline and the configured timeout
func (s *SMTPSender) dial(ctx context.Context) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: s.cfg.Timeout}

	conn, err := dialer.DialContext(ctx, "tcp", s.Addr())
	if err != nil {
		return nil, fmt.Errorf("email: failed to connect to %s: %w", s.Addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	switch {
	case s.cfg.ImplicitTLS:
		tlsConn := tls.Client(conn, s.tlsConfig())
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("email: TLS handshake with %s failed: %w", s.Addr(), err)
		}
		return smtp.NewClient(tlsConn), nil

	case s.cfg.UseTLS:
		// Closes conn on failure
		c, err := smtp.NewClientStartTLS(conn, s.tlsConfig())
		if err != nil {
			return nil, fmt.Errorf("email: STARTTLS with %s failed: %w", s.Addr(), err)
		}
		return c, nil

	default:
		return smtp.NewClient(conn), nil
	}
}

// tlsConfig returns the configured TLS settings with ServerName filled in
func (s *SMTPSender) tlsConfig() *tls.Config {
	cfg := &tls.Config{}
	if s.cfg.TLSConfig != nil {
		cfg = s.cfg.TLSConfig.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = s.cfg.Host
	}
	return cfg
}
