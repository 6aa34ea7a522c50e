package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Content.Path)
	assert.False(t, cfg.Content.Watch)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(v *viper.Viper)
		want  error
	}{
		{
			name:  "port out of range",
			setup: func(v *viper.Viper) { v.Set("server.port", 70000) },
			want:  ErrInvalidPort,
		},
		{
			name:  "unknown level",
			setup: func(v *viper.Viper) { v.Set("log.level", "verbose") },
			want:  ErrInvalidLogLevel,
		},
		{
			name:  "unknown format",
			setup: func(v *viper.Viper) { v.Set("log.format", "xml") },
			want:  ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			tt.setup(v)

			cfg, err := Load(v)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_WatchRequiresPath(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("content.watch", true)

	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoad_NormalizesLevel(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("log.level", " DEBUG ")
	v.Set("log.format", "JSON")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestNew_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contactform.yaml")
	data := []byte("server:\n  port: 9090\nlog:\n  level: warn\ncontent:\n  path: ./copy.yaml\n  watch: true\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	v, err := New(path)
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "copy.yaml", cfg.Content.Path)
	assert.True(t, cfg.Content.Watch)
}

func TestNew_MissingExplicitFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv("CONTACTFORM_SERVER_PORT", "3000")
	t.Setenv("CONTACTFORM_LOG_FORMAT", "json")
	t.Chdir(t.TempDir())

	v, err := New("")
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
}
