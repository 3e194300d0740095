package basiclogger

import "time"

// File layout
const (
	// DefaultSettingsFile is looked up in the base directory when Load gets an empty path
	DefaultSettingsFile = "LogSettings.json"
	logsDirName         = "Logs"
	logFileName         = "Log.txt"
	dayFolderLayout     = "02-01-2006"
)

// Timers
const (
	// DefaultFlushInterval is the file flush period
	DefaultFlushInterval = time.Second
	// Lower bound for any drain interval
	minDrainInterval = 10 * time.Millisecond
)

// Settings defaults
const (
	defaultEmailIntervalS = 180
	defaultSMTPPort       = 587
	defaultSMTPTimeoutS   = 30
	defaultTransport      = TransportSMTP
	defaultLogFormat      = "txt"
)

// Mail transports
const (
	TransportSMTP   = "smtp"
	TransportResend = "resend"
	TransportWriter = "writer" // Prints the report to stdout, for development
)

// Environment overrides applied after a settings file is decoded
const (
	envSMTPUsername = "BASICLOGGER_SMTP_USERNAME"
	envSMTPPassword = "BASICLOGGER_SMTP_PASSWORD"
	envResendAPIKey = "BASICLOGGER_RESEND_API_KEY"
	envFileName     = ".env"
)
