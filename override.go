package basiclogger

import (
	"reflect"
	"strconv"
	"strings"
)

// ApplyOverride applies "key=value" overrides to the settings, using the TOML/YAML key names.
// List values are comma separated. The settings are validated afterwards.
//
// Example:
//
//	err := settings.ApplyOverride(
//	    "send_email_alerts=true",
//	    "email_alert_log_level=critical",
//	    "email_addresses=ops@example.com,dev@example.com",
//	)
func (s *Settings) ApplyOverride(overrides ...string) error {
	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applySettingsField(s, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}
	return s.Validate()
}

// applySettingsField applies a single key-value override to the field carrying that toml tag
func applySettingsField(s *Settings, key, value string) error {
	v := reflect.ValueOf(s).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") != key {
			continue
		}
		field := v.Field(i)

		switch field.Kind() {
		case reflect.String:
			field.SetString(value)

		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
			}
			field.SetBool(b)

		case reflect.Int:
			// Special handling: levels accept names as well as numbers
			if field.Type() == levelType {
				lvl, err := ParseLevel(value)
				if err != nil {
					return fmtErrorf("invalid level value for %s '%s': %w", key, value, err)
				}
				field.SetInt(int64(lvl))
				return nil
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
			}
			field.SetInt(int64(n))

		case reflect.Slice:
			var list []string
			for _, item := range strings.Split(value, ",") {
				if item = strings.TrimSpace(item); item != "" {
					list = append(list, item)
				}
			}
			field.Set(reflect.ValueOf(list))

		default:
			return fmtErrorf("unsupported field type for %s: %v", key, field.Kind())
		}
		return nil
	}

	return fmtErrorf("unknown settings key: %s", key)
}
