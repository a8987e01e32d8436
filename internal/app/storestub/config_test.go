package storestub

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	for _, key := range []string{"STORESTUB_PORT", "STORESTUB_BASE_PATH", "STORESTUB_NO_SEED"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, "/api", cfg.BasePath)
	require.False(t, cfg.NoSeed)

	t.Setenv("STORESTUB_NO_SEED", "true")
	t.Setenv("STORESTUB_PORT", "9100")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.NoSeed)
	require.Equal(t, "9100", cfg.Port)
}
