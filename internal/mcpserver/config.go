package mcpserver

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

// ConfigFormatVersion is the current version of the configuration file format
const ConfigFormatVersion = "0.1.0"

const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"

	DefaultPort            = "3020"
	DefaultActivityLogSize = 1000
	DefaultLogLevel        = "info"

	EnvPort      = "PORT"
	EnvTransport = "TRANSPORT_MODE"
	EnvLogLevel  = "LOG_LEVEL"
)

// ConfigParam holds all configuration parameters for the MCP server
type ConfigParam struct {
	// Configuration version
	FormatVersion string `toml:"format_version"` // Version of this configuration file format

	// Server configuration
	ServerHostName string `toml:"server_hostname"` // Interface to listen on; empty means all
	ServerPort     string `toml:"server_port"`     // Port for the server
	Transport      string `toml:"transport"`       // "http" or "stdio"
	HandleCORS     bool   `toml:"handle_cors"`     // Whether to handle CORS
	LogLevel       string `toml:"log_level"`       // zerolog level name

	// Number of tool calls kept in the activity log
	ActivityLogSize int `toml:"activity_log_size"`

	// Portainer connection
	Portainer portainer.Config `toml:"portainer"`
}

// Addr returns the listen address of the HTTP transport.
func (c *ConfigParam) Addr() string {
	return net.JoinHostPort(c.ServerHostName, c.ServerPort)
}

// ApplyEnv overrides the configuration with PORT, TRANSPORT_MODE, LOG_LEVEL and the
// PORTAINER_* variables. Empty variables are ignored.
func (c *ConfigParam) ApplyEnv() {
	if v := os.Getenv(EnvPort); v != "" {
		c.ServerPort = v
	}
	if v := os.Getenv(EnvTransport); v != "" {
		c.Transport = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	c.Portainer.ApplyEnv()
}

// ValidateConfig fills in defaults and checks that the configuration is usable
func ValidateConfig(cfg *ConfigParam) error {
	if cfg.FormatVersion == "" {
		cfg.FormatVersion = ConfigFormatVersion
	}
	if cfg.FormatVersion != ConfigFormatVersion {
		return ErrInvalidConfig.Msg(fmt.Sprintf("unsupported config file format version: %s", cfg.FormatVersion))
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = DefaultPort
	}
	if p, err := strconv.Atoi(cfg.ServerPort); err != nil || p <= 0 || p > 65535 {
		return ErrInvalidConfig.Msg(fmt.Sprintf("invalid server_port: %q", cfg.ServerPort))
	}

	switch cfg.Transport {
	case "":
		cfg.Transport = TransportHTTP
	case TransportHTTP, TransportStdio:
	default:
		return ErrInvalidConfig.Msg(fmt.Sprintf("unknown transport %q, expected %q or %q", cfg.Transport, TransportHTTP, TransportStdio))
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.ActivityLogSize <= 0 {
		cfg.ActivityLogSize = DefaultActivityLogSize
	}

	cfg.Portainer = cfg.Portainer.WithDefaults()
	if err := cfg.Portainer.Validate(); err != nil {
		return ErrInvalidConfig.MsgErr("invalid [portainer] section", err)
	}
	return nil
}

// LoadConfig reads the TOML file at filename, applies environment overrides and
// validates the result. An empty filename starts from an empty file.
func LoadConfig(filename string) (*ConfigParam, error) {
	cfg := &ConfigParam{}
	if filename != "" {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, ErrInvalidConfig.MsgErr("error reading config file", err)
		}
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return nil, ErrInvalidConfig.MsgErr("error parsing config file", err)
		}
	}
	cfg.ApplyEnv()

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
