package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abekenov/product-advisor/internal/common"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestFromViperDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := FromViper()

	require.NoError(t, err)
	assert.Equal(t, "case1", cfg.Data.Dir)
	assert.Equal(t, "out/advisor.db", cfg.Database.Path)
	assert.Equal(t, "out/recommendations.csv", cfg.Output.Path)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "template", cfg.Notify.Provider)
}

func TestFromViperOverrides(t *testing.T) {
	resetViper(t)
	viper.Set("data.dir", "/data/exports")
	viper.Set("engine.workers", 8)
	viper.Set("server.addr", ":9090")
	viper.Set("notify.provider", "gemini")
	viper.Set("notify.api_key", "key-123")

	cfg, err := FromViper()

	require.NoError(t, err)
	assert.Equal(t, "/data/exports", cfg.Data.Dir)
	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.Notify.Provider)
}

func TestFromViperGeminiRequiresAPIKey(t *testing.T) {
	resetViper(t)
	viper.Set("notify.provider", "gemini")

	_, err := FromViper()

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestFromViperNegativeWorkersFallBack(t *testing.T) {
	resetViper(t)
	viper.Set("engine.workers", -2)

	cfg, err := FromViper()

	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Engine.Workers)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("ADVISOR_TEST_DIR", "/srv/advisor")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain path", in: "/var/data", want: "/var/data"},
		{name: "env var", in: "$ADVISOR_TEST_DIR/data", want: "/srv/advisor/data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
