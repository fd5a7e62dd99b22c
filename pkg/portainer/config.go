package portainer

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultURL is the in-cluster address of the Portainer service.
	DefaultURL = "http://portainer.portainer.svc.cluster.local:9000"
	// DefaultUsername is the Portainer administrator account.
	DefaultUsername = "admin"

	EnvURL      = "PORTAINER_URL"
	EnvUsername = "PORTAINER_USERNAME"
	EnvPassword = "PORTAINER_PASSWORD"
)

// Config holds the connection settings for a Portainer server.
type Config struct {
	// URL is the base URL of the Portainer server. Defaults to DefaultURL.
	URL string `yaml:"url" toml:"url" validate:"required,http_url"`
	// Username used to log in. Defaults to DefaultUsername.
	Username string `yaml:"username" toml:"username" validate:"required"`
	// Password used to log in. Defaults to empty.
	Password string `yaml:"password" toml:"password"`
	// InsecureSkipVerify disables TLS certificate validation.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" toml:"insecure_skip_verify"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	return Config{
		URL:      DefaultURL,
		Username: DefaultUsername,
	}
}

// ConfigFromEnv returns the default Config overridden by PORTAINER_URL,
// PORTAINER_USERNAME and PORTAINER_PASSWORD.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides fields with the PORTAINER_* variables that are set and non-empty.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvURL); v != "" {
		c.URL = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		c.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Password = v
	}
}

// WithDefaults returns a copy with empty URL and Username replaced by their defaults
// and any trailing slash removed from the URL.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.URL) == "" {
		c.URL = DefaultURL
	}
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	return c
}

// Validate checks that the configuration can be used to reach a server.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrInvalidConfig.Err(err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "http_url":
			msgs = append(msgs, fmt.Sprintf("%s %q must be an http:// or https:// URL", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return ErrInvalidConfig.MsgErr("invalid portainer configuration: "+strings.Join(msgs, "; "), err)
}
