package email

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
	"time"

	"github.com/jufman/basiclogger/sanitizer"
)

// Message is one alert report addressed to all recipients
type Message struct {
	From      string
	To        []string
	Subject   string
	HTML      string
	Text      string // Plain text fallback
	MessageID string // Without angle brackets
	Date      time.Time
}

// Bytes renders the message as an RFC 5322 document with a multipart/alternative body
func (m Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	hdr := headerWriter{clean: sanitizer.New().Policy(sanitizer.PolicyMail)}
	hdr.write("From", m.From)
	hdr.write("To", strings.Join(m.To, ", "))
	hdr.write("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	hdr.write("Date", date.Format(time.RFC1123Z))
	if m.MessageID != "" {
		hdr.write("Message-ID", "<"+m.MessageID+">")
	}
	hdr.write("MIME-Version", "1.0")
	hdr.write("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary()))
	hdr.buf.WriteString("\r\n")

	if err := writePart(mw, "text/plain", m.Text); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html", m.HTML); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("email: failed to close multipart body: %w", err)
	}

	return append(hdr.buf.Bytes(), buf.Bytes()...), nil
}

// headerWriter collects header lines; values are flattened to a single line
type headerWriter struct {
	buf   bytes.Buffer
	clean *sanitizer.Sanitizer
}

func (h *headerWriter) write(key, value string) {
	h.buf.WriteString(key)
	h.buf.WriteString(": ")
	h.buf.WriteString(h.clean.Sanitize(value))
	h.buf.WriteString("\r\n")
}

// writePart adds one quoted-printable body part
func writePart(mw *multipart.Writer, contentType, body string) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType+"; charset=utf-8")
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	pw, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("email: failed to create %s part: %w", contentType, err)
	}
	qw := quotedprintable.NewWriter(pw)
	if _, err := qw.Write([]byte(body)); err != nil {
		return fmt.Errorf("email: failed to encode %s part: %w", contentType, err)
	}
	return qw.Close()
}
