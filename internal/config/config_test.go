package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/kizuna/ontology"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults_Valid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestDefaults_Capacities(t *testing.T) {
	caps, err := Defaults().ArenaCapacities()
	require.NoError(t, err)
	require.Equal(t, ontology.DefaultCapacities(), caps)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
log_level: debug
capacities:
  object: 64
stress:
  seed: 99
  operations: 25
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 64, cfg.Capacities["object"])
	require.Equal(t, 16, cfg.Capacities["brain"], "unset capacities keep their defaults")
	require.Equal(t, uint64(99), cfg.Stress.Seed)
	require.Equal(t, 25, cfg.Stress.Operations)
	require.Equal(t, 500, cfg.Stress.CheckEvery)

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KIZUNA_STRESS_SEED", "7")
	t.Setenv("KIZUNA_CAPACITIES_SCENE", "3")
	t.Setenv("KIZUNA_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, uint64(7), cfg.Stress.Seed)
	require.Equal(t, 3, cfg.Capacities["scene"])
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestLoad_NegativeCapacity(t *testing.T) {
	path := writeFile(t, "capacities:\n  brain: -4\n")
	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidCapacity)
	require.Contains(t, err.Error(), "capacities.brain")
}

func TestLoad_UnknownDatatype(t *testing.T) {
	path := writeFile(t, "capacities:\n  dragon: 4\n")
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown datatype")
}

func TestValidate_Stress(t *testing.T) {
	cfg := Defaults()
	cfg.Stress.Universes = 0
	require.ErrorContains(t, cfg.Validate(), "stress.universes")

	cfg = Defaults()
	cfg.Stress.Operations = -1
	require.ErrorContains(t, cfg.Validate(), "stress.operations")

	cfg = Defaults()
	cfg.Stress.CheckEvery = -1
	require.ErrorContains(t, cfg.Validate(), "stress.check_every")
}

func TestLevel(t *testing.T) {
	level, err := Config{}.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)

	_, err = Config{LogLevel: "loud"}.Level()
	require.ErrorContains(t, err, "log_level")
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kizuna.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "capacities:")
	require.Contains(t, string(data), "  object: 1024")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestMarshal_FlushesWholeDocument(t *testing.T) {
	data, err := Defaults().Marshal()
	require.NoError(t, err)
	require.Contains(t, string(data), "log_level: info")
	require.Contains(t, string(data), "  check_every: 500\n")
}
