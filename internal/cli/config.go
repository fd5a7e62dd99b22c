package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tansive/portainer-mcp/pkg/portainer"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// ConfigVersion is the format version written to new config files
const ConfigVersion = "0.1.0"

// Config represents the configuration for portainerctl.
// The connection settings are stored inline next to the format version.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`

	portainer.Config `yaml:",inline"`
}

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/portainerctl on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "portainerctl", DefaultConfigFile), nil
}

// LoadConfig reads the configuration from file.
func LoadConfig(file string) (*Config, error) {
	if file == "" {
		return nil, errors.New("file path cannot be empty")
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}
	if c.Version != "" && c.Version != ConfigVersion {
		return nil, fmt.Errorf("unsupported config file version %q", c.Version)
	}
	return &c, nil
}

// WriteConfig writes the configuration to file, creating its directory if needed.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// configPath returns the --config flag value or the default location.
func (o *globalOptions) configPath() (string, error) {
	if o.configFile != "" {
		return o.configFile, nil
	}
	return GetDefaultConfigPath()
}

// resolveConfig layers the connection settings: defaults, then the config file,
// then PORTAINER_* variables (including those from a .env file in the working
// directory), then command line flags.
func (o *globalOptions) resolveConfig() (portainer.Config, error) {
	cfg := portainer.DefaultConfig()

	path, err := o.configPath()
	if err != nil {
		return cfg, err
	}
	fileCfg, err := LoadConfig(path)
	switch {
	case err == nil:
		mergeConfig(&cfg, fileCfg.Config)
	case errors.Is(err, os.ErrNotExist) && o.configFile == "":
		// running without a config file is fine
	default:
		return cfg, err
	}

	if cwd, err := os.Getwd(); err == nil {
		_ = godotenv.Load(filepath.Join(cwd, ".env"))
	}
	cfg.ApplyEnv()

	mergeConfig(&cfg, portainer.Config{
		URL:                o.url,
		Username:           o.username,
		Password:           o.password,
		InsecureSkipVerify: o.insecure,
	})

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mergeConfig copies the non-empty fields of src over dst.
func mergeConfig(dst *portainer.Config, src portainer.Config) {
	if src.URL != "" {
		dst.URL = src.URL
	}
	if src.Username != "" {
		dst.Username = src.Username
	}
	if src.Password != "" {
		dst.Password = src.Password
	}
	if src.InsecureSkipVerify {
		dst.InsecureSkipVerify = true
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  `Manage the Portainer connection settings stored in the portainerctl config file.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.AddCommand(newConfigSetCmd(opts), newConfigShowCmd(opts))
	return cmd
}

func newConfigSetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Store connection settings in the config file",
		Long: `Store the values of --url, --username, --password and --insecure in the config file.
Settings that are not given keep their current value.

Examples:
  portainerctl config set --url https://portainer.example.com:9443 --username admin
  portainerctl config set --password s3cret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.configPath()
			if err != nil {
				return err
			}

			cfg, err := LoadConfig(path)
			if errors.Is(err, os.ErrNotExist) {
				cfg, err = &Config{}, nil
			}
			if err != nil {
				return err
			}
			cfg.Version = ConfigVersion
			mergeConfig(&cfg.Config, portainer.Config{
				URL:      opts.url,
				Username: opts.username,
				Password: opts.password,
			})
			if cmd.Flags().Changed("insecure") {
				cfg.InsecureSkipVerify = opts.insecure
			}

			cfg.Config = cfg.Config.WithDefaults()
			if err := cfg.Config.Validate(); err != nil {
				return err
			}
			if err := cfg.WriteConfig(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, map[string]any{
					"result":      1,
					"config_file": path,
				})
			}
			fmt.Fprintf(out, "Config file: %s\n", path)
			return nil
		},
	}
}

func newConfigShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective connection settings",
		Long:  `Show the connection settings after applying the config file, PORTAINER_* variables and flags. The password is masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolveConfig()
			if err != nil {
				return err
			}
			password := ""
			if cfg.Password != "" {
				password = "********"
			}
			return opts.printValue(cmd, map[string]any{
				"url":                  cfg.URL,
				"username":             cfg.Username,
				"password":             password,
				"insecure_skip_verify": cfg.InsecureSkipVerify,
			})
		},
	}
}
