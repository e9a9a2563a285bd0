package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// ErrInvalidEnvValue is returned when an environment override cannot be
// parsed into its config field.
var ErrInvalidEnvValue = errors.New("invalid environment value")

// overrideFromEnv copies every set `env:"NAME"` variable into the matching
// field of cfg, descending into nested sections. All unparsable variables are
// reported together so a misconfigured deployment shows every problem at once.
func overrideFromEnv(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: env overrides need a struct pointer, got %T", cfg)
	}

	var errs []error
	applyEnvSection(v.Elem(), &errs)
	return errors.Join(errs...)
}

func applyEnvSection(section reflect.Value, errs *[]error) {
	t := section.Type()
	for i := 0; i < section.NumField(); i++ {
		field := section.Field(i)
		if field.Kind() == reflect.Struct {
			applyEnvSection(field, errs)
			continue
		}

		name := t.Field(i).Tag.Get("env")
		if name == "" || !field.CanSet() {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if err := setEnvValue(field, raw); err != nil {
			*errs = append(*errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidEnvValue, name, raw, err))
		}
	}
}

// setEnvValue handles the field kinds Config uses. Durations are kept as
// strings in Config and parsed during validation.
func setEnvValue(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return errors.New("expected an integer")
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.New("expected true or false")
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
