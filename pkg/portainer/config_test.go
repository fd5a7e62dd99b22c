package portainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv(EnvURL, "")
		t.Setenv(EnvUsername, "")
		t.Setenv(EnvPassword, "")

		cfg := ConfigFromEnv()
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Equal(t, "http://portainer.portainer.svc.cluster.local:9000", cfg.URL)
		assert.Equal(t, "admin", cfg.Username)
		assert.Empty(t, cfg.Password)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv(EnvURL, "https://portainer.example.com")
		t.Setenv(EnvUsername, "ops")
		t.Setenv(EnvPassword, "hunter2")

		cfg := ConfigFromEnv()
		assert.Equal(t, Config{
			URL:      "https://portainer.example.com",
			Username: "ops",
			Password: "hunter2",
		}, cfg)
	})

	t.Run("apply keeps fields whose variable is empty", func(t *testing.T) {
		t.Setenv(EnvURL, "")
		t.Setenv(EnvUsername, "")
		t.Setenv(EnvPassword, "from-env")

		cfg := Config{URL: "http://10.0.0.5:9000", Username: "viewer"}
		cfg.ApplyEnv()
		assert.Equal(t, "http://10.0.0.5:9000", cfg.URL)
		assert.Equal(t, "viewer", cfg.Username)
		assert.Equal(t, "from-env", cfg.Password)
	})
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{URL: "  https://portainer.example.com:9443//  ", Password: "x"}.WithDefaults()
	assert.Equal(t, "https://portainer.example.com:9443", cfg.URL)
	assert.Equal(t, DefaultUsername, cfg.Username)
	assert.Equal(t, "x", cfg.Password)

	assert.Equal(t, DefaultURL, Config{}.WithDefaults().URL)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name: "valid",
			cfg:  Config{URL: "https://portainer.example.com", Username: "admin"},
		},
		{
			name: "valid without password",
			cfg:  DefaultConfig(),
		},
		{
			name:    "missing fields",
			cfg:     Config{},
			wantErr: []string{"url is required", "username is required"},
		},
		{
			name:    "not an http url",
			cfg:     Config{URL: "ftp://portainer.example.com", Username: "admin"},
			wantErr: []string{`url "ftp://portainer.example.com" must be an http:// or https:// URL`},
		},
		{
			name:    "missing scheme",
			cfg:     Config{URL: "portainer:9000", Username: "admin"},
			wantErr: []string{"url"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
