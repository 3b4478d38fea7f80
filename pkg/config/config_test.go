package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"JWT_SECRET": "s"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, AuthProviderLocal, cfg.Auth.Provider)
	assert.Equal(t, "STAFF", cfg.Auth.DefaultRole)
	assert.True(t, cfg.DB.AtomicLedger)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_SinSecret_Error(t *testing.T) {
	_, err := fromViper(newViper(nil))
	assert.Error(t, err)
}

func TestFromViper_GoTrueRequiereURL(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{"JWT_SECRET": "s", "AUTH_PROVIDER": "gotrue"}))
	assert.Error(t, err)

	cfg, err := fromViper(newViper(map[string]any{
		"JWT_SECRET":    "s",
		"AUTH_PROVIDER": "GoTrue",
		"GOTRUE_URL":    "https://demo.supabase.co/",
	}))
	require.NoError(t, err)
	assert.Equal(t, AuthProviderGoTrue, cfg.Auth.Provider)
	assert.Equal(t, "https://demo.supabase.co", cfg.Auth.GoTrueURL)
}

func TestFromViper_IntInvalidoUsaDefault(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"JWT_SECRET": "s", "HTTP_PORT": "abc"}))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "warehouse", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/warehouse?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
