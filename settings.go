package basiclogger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/lixenwraith/config"
	"gopkg.in/yaml.v3"

	"github.com/jufman/basiclogger/formatter"
)

// tomlPrefix is the table holding the settings in TOML files
const tomlPrefix = "logger."

// Settings holds the alerting and storage configuration, loaded once and read-only afterwards.
// JSON keys follow the LogSettings.json layout; YAML and TOML use snake_case keys
type Settings struct {
	// Alerting
	EmailEnabled         bool     `json:"SendEmailAlerts" yaml:"send_email_alerts" toml:"send_email_alerts"`
	AlertThreshold       Level    `json:"EmailAlertLogLevel" yaml:"email_alert_log_level" toml:"email_alert_log_level"`
	EmailIntervalSeconds int      `json:"EmailInterval" yaml:"email_interval_s" toml:"email_interval_s"`
	Recipients           []string `json:"EmailAddresses" yaml:"email_addresses" toml:"email_addresses"`

	// SMTP
	SMTPHost           string `json:"EmailServerAddress" yaml:"email_server_address" toml:"email_server_address"`
	SenderAddress      string `json:"SenderAddress" yaml:"sender_address" toml:"sender_address"`
	RequiresAuth       bool   `json:"RequiresAuth" yaml:"requires_auth" toml:"requires_auth"`
	Username           string `json:"Username" yaml:"username" toml:"username"`
	Password           string `json:"Password" yaml:"password" toml:"password"`
	Port               int    `json:"Port" yaml:"port" toml:"port"`
	UseTLS             bool   `json:"EnableSsl" yaml:"enable_ssl" toml:"enable_ssl"`
	SMTPTimeoutSeconds int    `json:"SmtpTimeout" yaml:"smtp_timeout_s" toml:"smtp_timeout_s"`

	// Report
	Subject string `json:"Subject" yaml:"subject" toml:"subject"`
	AppName string `json:"AppName" yaml:"app_name" toml:"app_name"`

	// Transport selection: smtp, resend or writer
	Transport    string `json:"Transport" yaml:"transport" toml:"transport"`
	ResendAPIKey string `json:"ResendApiKey" yaml:"resend_api_key" toml:"resend_api_key"`

	// Storage
	LogFolderOverride string `json:"LogFolderLocation" yaml:"log_folder_location" toml:"log_folder_location"`
	LogFormat         string `json:"LogFormat" yaml:"log_format" toml:"log_format"` // "txt" or "json"
}

// DefaultSettings returns the built-in defaults. Fields absent from a settings file keep these values
func DefaultSettings() *Settings {
	return &Settings{
		EmailEnabled:         false,
		AlertThreshold:       LevelError,
		EmailIntervalSeconds: defaultEmailIntervalS,
		Recipients:           []string{},
		Port:                 defaultSMTPPort,
		UseTLS:               true,
		SMTPTimeoutSeconds:   defaultSMTPTimeoutS,
		Subject:              "Error Log From " + executableName(),
		Transport:            defaultTransport,
		LogFormat:            defaultLogFormat,
	}
}

// LoadSettings reads a settings file, choosing the decoder by extension (.json, .yaml/.yml, .toml).
// Environment overrides are applied and the result is validated
func LoadSettings(path string) (*Settings, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
		}
		return nil, fmtErrorf("failed to stat settings file '%s': %w", path, err)
	}

	var (
		s   *Settings
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		s, err = loadTOMLSettings(path)
	case ".yaml", ".yml":
		s, err = loadYAMLSettings(path)
	default:
		s, err = loadJSONSettings(path)
	}
	if err != nil {
		return nil, err
	}

	s.applyEnv(filepath.Dir(path))

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadJSONSettings decodes a JSON settings document over the defaults
func loadJSONSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmtErrorf("failed to read settings file '%s': %w", path, err)
	}
	s := DefaultSettings()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmtErrorf("failed to parse settings file '%s': %w", path, err)
	}
	return s, nil
}

// loadYAMLSettings decodes a YAML settings document over the defaults
func loadYAMLSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmtErrorf("failed to read settings file '%s': %w", path, err)
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmtErrorf("failed to parse settings file '%s': %w", path, err)
	}
	return s, nil
}

// loadTOMLSettings reads the [logger] table of a TOML file
func loadTOMLSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	loader := config.New()
	if err := loader.RegisterStruct(tomlPrefix, *s); err != nil {
		return nil, fmtErrorf("failed to register settings struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
		}
		return nil, fmtErrorf("failed to load settings from %s: %w", path, err)
	}

	if err := extractSettings(loader, tomlPrefix, s); err != nil {
		return nil, fmtErrorf("failed to extract settings values: %w", err)
	}
	return s, nil
}

// extractSettings copies values found by the loader into s, keyed by toml tag
func extractSettings(loader *config.Config, prefix string, s *Settings) error {
	v := reflect.ValueOf(s).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found || val == nil {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

var levelType = reflect.TypeOf(Level(0))

// setFieldValue sets a settings field with the conversions TOML decoding needs
func setFieldValue(field reflect.Value, value any) error {
	rv := reflect.ValueOf(value)

	switch field.Kind() {
	case reflect.String:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(str)

	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(b)

	case reflect.Int, reflect.Int64:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			field.SetInt(rv.Int())
		case reflect.Float32, reflect.Float64:
			field.SetInt(int64(rv.Float()))
		case reflect.String:
			if field.Type() != levelType {
				return fmt.Errorf("expected integer, got %T", value)
			}
			lvl, err := ParseLevel(rv.String())
			if err != nil {
				return err
			}
			field.SetInt(int64(lvl))
		default:
			return fmt.Errorf("expected integer, got %T", value)
		}

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String || rv.Kind() != reflect.Slice {
			return fmt.Errorf("expected string list, got %T", value)
		}
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			str, ok := rv.Index(i).Interface().(string)
			if !ok {
				return fmt.Errorf("expected string list element, got %T", rv.Index(i).Interface())
			}
			out = append(out, str)
		}
		field.Set(reflect.ValueOf(out))

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// applyEnv loads an optional .env file next to the settings and applies credential overrides
func (s *Settings) applyEnv(dir string) {
	envPath := filepath.Join(dir, envFileName)
	if _, err := os.Stat(envPath); err == nil {
		// Existing process variables take precedence over the file
		_ = godotenv.Load(envPath)
	}

	if v := os.Getenv(envSMTPUsername); v != "" {
		s.Username = v
	}
	if v := os.Getenv(envSMTPPassword); v != "" {
		s.Password = v
	}
	if v := os.Getenv(envResendAPIKey); v != "" {
		s.ResendAPIKey = v
	}
}

// SaveSettings writes s to path in the format chosen by the extension
func SaveSettings(path string, s *Settings) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var buf bytes.Buffer
		table := map[string]*Settings{strings.TrimSuffix(tomlPrefix, "."): s}
		err = toml.NewEncoder(&buf).Encode(table)
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmtErrorf("failed to encode settings: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmtErrorf("failed to create settings directory '%s': %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmtErrorf("failed to write settings file '%s': %w", path, err)
	}
	return nil
}

// Validate checks the settings for values the logger cannot work with
func (s *Settings) Validate() error {
	var errs []error

	if !s.AlertThreshold.Valid() {
		errs = append(errs, fmtErrorf("email_alert_log_level must be between %d and %d: %d",
			LevelSystem, LevelCritical, s.AlertThreshold))
	}

	if s.Transport != TransportSMTP && s.Transport != TransportResend && s.Transport != TransportWriter {
		errs = append(errs, fmtErrorf("invalid transport: '%s' (use smtp, resend or writer)", s.Transport))
	}

	if !formatter.ValidFormat(s.LogFormat) {
		errs = append(errs, fmtErrorf("invalid log_format: '%s' (use txt or json)", s.LogFormat))
	}

	if s.Port <= 0 || s.Port > 65535 {
		errs = append(errs, fmtErrorf("port must be between 1 and 65535: %d", s.Port))
	}

	if s.SMTPTimeoutSeconds < 0 {
		errs = append(errs, fmtErrorf("smtp_timeout_s cannot be negative: %d", s.SMTPTimeoutSeconds))
	}

	// Cross-field validations only matter when alerts are sent
	if s.EmailEnabled {
		if s.EmailIntervalSeconds <= 0 {
			errs = append(errs, fmtErrorf("email_interval_s must be positive when alerts are enabled: %d",
				s.EmailIntervalSeconds))
		}
		if len(s.Recipients) == 0 {
			errs = append(errs, fmtErrorf("at least one recipient is required when alerts are enabled"))
		}
		if slices.ContainsFunc(s.Recipients, func(r string) bool { return strings.TrimSpace(r) == "" }) {
			errs = append(errs, fmtErrorf("recipient addresses cannot be empty"))
		}
		if s.Transport != TransportWriter && strings.TrimSpace(s.SenderAddress) == "" {
			errs = append(errs, fmtErrorf("sender_address is required when alerts are enabled"))
		}
		if s.Transport == TransportSMTP && strings.TrimSpace(s.SMTPHost) == "" {
			errs = append(errs, fmtErrorf("email_server_address is required for the smtp transport"))
		}
		if s.Transport == TransportSMTP && s.RequiresAuth && s.Username == "" {
			errs = append(errs, fmtErrorf("username is required when requires_auth is set"))
		}
		if s.Transport == TransportResend && s.ResendAPIKey == "" {
			errs = append(errs, fmtErrorf("resend_api_key is required for the resend transport"))
		}
	}

	return combineConfigErrors(errs)
}

// Clone creates a deep copy of the settings
func (s *Settings) Clone() *Settings {
	copied := *s
	copied.Recipients = slices.Clone(s.Recipients)
	return &copied
}

// EmailInterval returns the dispatch period
func (s *Settings) EmailInterval() time.Duration {
	return time.Duration(s.EmailIntervalSeconds) * time.Second
}

// SMTPTimeout returns the bound on a single send, 0 meaning the default
func (s *Settings) SMTPTimeout() time.Duration {
	if s.SMTPTimeoutSeconds <= 0 {
		return defaultSMTPTimeoutS * time.Second
	}
	return time.Duration(s.SMTPTimeoutSeconds) * time.Second
}

// ReportAppName returns the name shown in alert reports
func (s *Settings) ReportAppName() string {
	if s.AppName != "" {
		return s.AppName
	}
	return executableName()
}
