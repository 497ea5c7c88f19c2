package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"deckstudio/config"
)

func newTestConfigService(t *testing.T) (*ConfigService, string) {
	t.Helper()
	dir := t.TempDir()
	cs := NewConfigService(nil, zaptest.NewLogger(t))
	cs.SetStorageDir(dir)
	require.NoError(t, cs.Initialize(context.Background()))
	t.Cleanup(func() { cs.Shutdown() })
	return cs, dir
}

func TestConfigService_FirstRunWritesDefaults(t *testing.T) {
	cs, dir := newTestConfigService(t)

	path, err := cs.GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg, err := cs.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Default(dir), cfg)
}

func TestConfigService_CorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600))

	cs := NewConfigService(nil, nil)
	cs.SetStorageDir(dir)
	require.NoError(t, cs.Initialize(context.Background()))
	defer cs.Shutdown()

	cfg, err := cs.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultModelName, cfg.ModelName)
}

func TestConfigService_SaveNotifiesAndPersists(t *testing.T) {
	cs, dir := newTestConfigService(t)

	var got []config.Config
	cs.OnConfigChanged(func(c config.Config) { got = append(got, c) })

	cfg, _ := cs.GetConfig()
	cfg.APIKey = "sk-test"
	cfg.Generation.DefaultSlideCount = 99
	require.NoError(t, cs.SaveConfig(cfg))

	require.Len(t, got, 1)
	assert.Equal(t, config.MaxSlideCount, got[0].Generation.DefaultSlideCount)

	onDisk, err := config.Load(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", onDisk.APIKey)
	assert.NoFileExists(t, filepath.Join(dir, "config.json.tmp"))
}

func TestConfigService_SaveRejectsInvalid(t *testing.T) {
	cs, _ := newTestConfigService(t)
	cfg, _ := cs.GetConfig()

	bad := cfg
	bad.Store.Engine = "mysql"
	assert.Error(t, cs.SaveConfig(bad))

	bad = cfg
	bad.DataDir = filepath.Join(t.TempDir(), "missing")
	assert.ErrorContains(t, cs.SaveConfig(bad), "does not exist")

	current, _ := cs.GetConfig()
	assert.Equal(t, cfg, current)
}

func TestConfigService_ReloadsExternalEdits(t *testing.T) {
	cs, dir := newTestConfigService(t)

	changed := make(chan config.Config, 1)
	cs.OnConfigChanged(func(c config.Config) {
		select {
		case changed <- c:
		default:
		}
	})

	cfg, _ := cs.GetConfig()
	cfg.ModelName = "edited-by-hand"
	data, err := config.Encode("config.json", cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), data, 0600))

	select {
	case c := <-changed:
		assert.Equal(t, "edited-by-hand", c.ModelName)
	case <-time.After(5 * time.Second):
		t.Fatal("external edit was not picked up")
	}
	current, _ := cs.GetConfig()
	assert.Equal(t, "edited-by-hand", current.ModelName)
}

func TestConfigService_DefaultsBeforeInitialize(t *testing.T) {
	cs := NewConfigService(nil, nil)
	cs.SetStorageDir("/tmp/deckstudio-test")
	cfg, err := cs.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/deckstudio-test", cfg.DataDir)
	assert.NoError(t, cs.Shutdown())
}
