package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidConfig is returned when the provided config is not a pointer to a struct
	// that embeds EnvConfig.
	ErrInvalidConfig = errors.New("config must be a pointer to a struct embedding EnvConfig")

	// ErrVarNotSet is returned when a required environment variable is not set and has no default.
	ErrVarNotSet = errors.New("env var not set")

	// ErrUnsupportedVarType is returned when trying to parse an environment variable
	// into an unsupported Go type.
	ErrUnsupportedVarType = errors.New("unsupported env var type")
)

//nolint:gochecknoglobals
var (
	envConfigType = reflect.TypeOf(EnvConfig{}) //nolint:exhaustruct
	durationType  = reflect.TypeOf(time.Duration(0))
)

// EnvConfig is a base type that must be embedded in configuration structs
// to enable environment variable parsing.
type EnvConfig struct {
	namespace string
}

// Namespace returns the namespace the config was parsed with.
func (c EnvConfig) Namespace() string {
	return c.namespace
}

func getEnvConfig(cfg any) (*EnvConfig, error) {
	ptr := reflect.ValueOf(cfg)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidConfig
	}

	val := ptr.Elem()

	for i := range val.NumField() {
		field := val.Type().Field(i)
		if !field.Anonymous || field.Type != envConfigType {
			continue
		}

		//nolint:forcetypeassert
		if fv := val.Field(i); fv.CanAddr() {
			return fv.Addr().Interface().(*EnvConfig), nil
		}
	}

	return nil, ErrInvalidConfig
}

// Parse loads configuration values from environment variables into the provided struct.
// The struct must embed EnvConfig and use `env` tags to specify variable names.
// Nested structs add their `envPrefix` tag to the names of their fields.
//
// Every variable is looked up under the namespace first, then under each shorter
// namespace prefix, then without any: with namespace "BLOG_API" the field tagged
// `env:"LEVEL"` in a struct prefixed "LOG_" is read from BLOG_API_LOG_LEVEL,
// BLOG_LOG_LEVEL, and LOG_LEVEL, in that order.
//
// Supports string, int, bool, time.Duration and comma separated []string fields.
func Parse(ctx context.Context, cfg any, namespace string) error {
	envConfig, err := getEnvConfig(cfg)
	if err != nil {
		return fmt.Errorf("get env config: %w", err)
	}

	envConfig.namespace = namespace

	return parseStruct(strings.Split(namespace, "_"), "", reflect.ValueOf(cfg).Elem())
}

func parseStruct(nsParts []string, prefix string, val reflect.Value) error {
	for i := range val.NumField() {
		field := val.Type().Field(i)
		fv := val.Field(i)

		if field.Type == envConfigType || !field.IsExported() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := parseStruct(nsParts, prefix+field.Tag.Get("envPrefix"), fv); err != nil {
				return err
			}

			continue
		}

		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		raw, ok := lookupEnv(nsParts, prefix+envTag)
		if !ok {
			def, hasDefault := field.Tag.Lookup("default")
			if !hasDefault {
				return fmt.Errorf("parse field: %w: %s", ErrVarNotSet, prefix+envTag)
			}

			raw = def
		}

		if err := setValue(fv, raw); err != nil {
			return fmt.Errorf("parse field %s: %w", prefix+envTag, err)
		}
	}

	return nil
}

func lookupEnv(nsParts []string, name string) (string, bool) {
	for i := len(nsParts); i >= 0; i-- {
		key := strings.Join(nsParts[:i], "_")
		if key != "" {
			key += "_"
		}

		if value, ok := os.LookupEnv(key + name); ok {
			return value, true
		}
	}

	return "", false
}

//nolint:cyclop,exhaustive
func setValue(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		fv.SetInt(int64(d))

		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int: %w", err)
		}

		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid bool: %w", err)
		}

		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w: %v", ErrUnsupportedVarType, fv.Type())
		}

		items := make([]string, 0)

		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

		fv.Set(reflect.ValueOf(items).Convert(fv.Type()))
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedVarType, fv.Type())
	}

	return nil
}
