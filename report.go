package basiclogger

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/jufman/basiclogger/formatter"
)

// Row colours of the alert report
const (
	rowColourDefault  = "#66bb6a"
	rowColourError    = "#ff3d00"
	rowColourCritical = "#d50000"
	rowColourSystem   = "#1976d2"
	textColourDark    = "#212121"
	textColourLight   = "#ffffff"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family:Segoe UI,Helvetica,Arial,sans-serif;font-size:14px;">
<h3>{{.Count}} events have been reported from {{.AppName}}</h3>
<table style="border-collapse:collapse;width:100%;">
<tr style="background-color:#424242;color:#ffffff;">
<th style="padding:6px;text-align:left;">Time</th>
<th style="padding:6px;text-align:left;">Level</th>
<th style="padding:6px;text-align:left;">Message</th>
</tr>
{{- range .Rows}}
<tr style="background-color:{{.Background}};color:{{.Foreground}};">
<td style="padding:6px;white-space:nowrap;">{{.Time}}</td>
<td style="padding:6px;">{{.Level}}</td>
<td style="padding:6px;white-space:pre-wrap;">{{.Message}}</td>
</tr>
{{- end}}
</table>
<p style="color:#757575;font-size:12px;">
Generated {{.Generated}} on {{.Host}}<br>
Running from {{.Folder}}<br>
Logger instance {{.InstanceID}}
</p>
</body>
</html>
`))

// reportRow is one event in the report table
type reportRow struct {
	Time       string
	Level      string
	Message    string
	Background template.CSS
	Foreground template.CSS
}

// report holds everything rendered into one alert email
type report struct {
	Subject    string
	AppName    string
	Count      int
	Rows       []reportRow
	Generated  string
	Host       string
	Folder     string
	InstanceID string

	events []Event
}

// newReport collects the batch and the footer details
func newReport(events []Event, s *Settings, instanceID string, generated time.Time) *report {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown host"
	}

	r := &report{
		Subject:    s.Subject,
		AppName:    s.ReportAppName(),
		Count:      len(events),
		Rows:       make([]reportRow, 0, len(events)),
		Generated:  generated.Format(formatter.DefaultTimestampFormat),
		Host:       host,
		Folder:     executableDir(),
		InstanceID: instanceID,
		events:     events,
	}
	for _, ev := range events {
		bg, fg := levelColours(ev.Level)
		r.Rows = append(r.Rows, reportRow{
			Time:       ev.Time.Format(formatter.DefaultTimestampFormat),
			Level:      ev.Level.String(),
			Message:    ev.Message,
			Background: template.CSS(bg),
			Foreground: template.CSS(fg),
		})
	}
	return r
}

// levelColours returns the row background and text colours for a level
func levelColours(level Level) (string, string) {
	switch level {
	case LevelError:
		return rowColourError, textColourLight
	case LevelCritical:
		return rowColourCritical, textColourLight
	case LevelSystem:
		return rowColourSystem, textColourLight
	default:
		return rowColourDefault, textColourDark
	}
}

// HTML renders the report body; message text is escaped
func (r *report) HTML() (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return "", fmtErrorf("failed to render alert report: %w", err)
	}
	return buf.String(), nil
}

// Text renders the plain text alternative using log file lines
func (r *report) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d events have been reported from %s\n\n", r.Count, r.AppName)

	f := formatter.New()
	for _, ev := range r.events {
		sb.Write(f.Format(ev.Time, ev.Level.String(), ev.Message))
	}

	fmt.Fprintf(&sb, "\nGenerated %s on %s\nRunning from %s\nLogger instance %s\n",
		r.Generated, r.Host, r.Folder, r.InstanceID)
	return sb.String()
}
