package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/sjzsdu/dirtree/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfig(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		envKey string
	}{
		{"短键设置语言", config.KeyLang, "zh-CN", "DIRTREE_LANG"},
		{"环境变量名设置并发数", "DIRTREE_WORKERS", "4", "DIRTREE_WORKERS"},
		{"短键设置调试日志", config.KeyDebug, "true", "DIRTREE_DEBUG_LOG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			config.SetConfig(tt.key, tt.value)

			assert.Equal(t, tt.value, os.Getenv(tt.envKey))
			assert.Equal(t, tt.value, config.GetConfig(tt.key))
			assert.Equal(t, tt.value, config.GetConfig(tt.envKey))
		})
	}
}

func TestClearConfig(t *testing.T) {
	isolate(t)
	config.SetConfig(config.KeyLang, "zh-CN")
	config.SetConfig("DIRTREE_WORKERS", "4")

	config.ClearConfig("DIRTREE_LANG")
	assert.Equal(t, "", config.GetConfig(config.KeyLang))
	assert.Equal(t, "4", config.GetConfig(config.KeyWorkers))

	config.ClearConfig(config.KeyWorkers)
	assert.Equal(t, "", os.Getenv("DIRTREE_WORKERS"))
}

func TestClearAllConfig(t *testing.T) {
	isolate(t)
	config.SetConfig(config.KeyLang, "zh-CN")
	config.SetConfig(config.KeyConfig, "dirtree.yaml")

	config.ClearAllConfig()
	for _, key := range []string{config.KeyLang, config.KeyConfig} {
		assert.Equal(t, "", config.GetConfig(key), key)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	home := isolate(t)
	config.SetConfig(config.KeyLang, "zh-CN")
	config.SetConfig(config.KeyWorkers, "6")
	require.NoError(t, config.SaveConfig())

	saved, err := godotenv.Read(filepath.Join(home, ".dirtree", "config"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DIRTREE_LANG": "zh-CN", "DIRTREE_WORKERS": "6"}, saved)

	config.ClearAllConfig()
	require.NoError(t, config.LoadConfig())
	t.Cleanup(func() {
		os.Unsetenv("DIRTREE_LANG")
		os.Unsetenv("DIRTREE_WORKERS")
	})
	assert.Equal(t, "zh-CN", config.GetConfig(config.KeyLang))
	assert.Equal(t, "6", config.GetConfig(config.KeyWorkers))
}

func TestConfigOptions(t *testing.T) {
	assert.True(t, config.IsValidConfigKey(config.KeyDebug))
	assert.False(t, config.IsValidConfigKey("model"))

	assert.True(t, config.IsValidConfigOption(config.KeyLang, "zh-CN"))
	assert.False(t, config.IsValidConfigOption(config.KeyLang, "fr"))
	assert.True(t, config.IsValidConfigOption(config.KeyDebug, "false"))
	assert.False(t, config.IsValidConfigOption(config.KeyDebug, "yes"))
	assert.True(t, config.IsValidConfigOption(config.KeyWorkers, "16"))

	assert.Equal(t, "Set mirror concurrency", config.GetConfigDescription(config.KeyWorkers))
	assert.Nil(t, config.GetConfigOptions("unknown"))
}
