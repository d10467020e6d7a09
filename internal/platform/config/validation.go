package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateConfig, Config{})

	return v
}

// validateConfig holds the rules that span sections.
func validateConfig(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}

	// A generator call must finish inside the request that triggered it,
	// otherwise the fallback never gets a chance to answer.
	if cfg.Server.RequestTimeout > 0 && cfg.Generator.Timeout >= cfg.Server.RequestTimeout {
		sl.ReportError(cfg.Generator.Timeout, "Generator.Timeout", "Timeout", "ltfield_request", "server.request_timeout")
	}

	// bbolt holds an exclusive lock, so only sqlite can change underneath a
	// running server.
	if cfg.Storage.Watch && cfg.Storage.Driver != DriverSQLite {
		sl.ReportError(cfg.Storage.Watch, "Storage.Watch", "Watch", "watch_driver", DriverSQLite)
	}
}

// Validate reports every invalid field in one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = describe(fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describe(fe validator.FieldError) string {
	field := formatFieldPath(fe.Namespace())
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, param)
	case "required_unless":
		return fmt.Sprintf("%s is required unless %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "url":
		return field + " must be a valid URL"
	case "ltfield_request":
		return fmt.Sprintf("%s must be shorter than %s", field, param)
	case "watch_driver":
		return fmt.Sprintf("%s needs storage.driver %s", field, param)
	}

	return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
}

// formatFieldPath turns "Config.Server.Port" into "server.port".
func formatFieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = namespace
	}

	return strings.ToLower(rest)
}
