package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sjzsdu/dirtree/share"
)

var configMap map[string]string

func init() {
	configMap = make(map[string]string)
}

// Home 用户级配置目录 ~/.dirtree
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return share.PATH
	}
	return filepath.Join(home, share.PATH)
}

// UserConfigFile 持久化配置文件路径
func UserConfigFile() string {
	return filepath.Join(Home(), "config")
}

func GetConfig(key string) string {
	// 1. 尝试按原样获取，可能是完整的环境变量名
	value := os.Getenv(key)
	if value != "" {
		return value
	}

	// 2. 如果key不是以PREFIX开头，尝试转换后获取
	if !strings.HasPrefix(key, share.PREFIX) {
		envKey := GetEnvKey(key)
		return os.Getenv(envKey)
	}

	// 3. 以PREFIX开头但直接获取为空的情况
	return ""
}

func GetConfigWithDefault(key string, defaultValue string) string {
	value := GetConfig(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnv 加载 .env 与用户配置文件到环境变量，已存在的环境变量不会被覆盖
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env", UserConfigFile()}
	}
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return err
		}
	}
	return LoadConfig()
}

// LoadConfig 读取用户配置文件到 configMap
func LoadConfig() error {
	values, err := godotenv.Read(UserConfigFile())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	// 清空现有配置
	configMap = values
	for key, value := range values {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	return nil
}

func SaveConfig() error {
	if err := os.MkdirAll(Home(), share.DIR_PERM); err != nil {
		return err
	}
	return godotenv.Write(configMap, UserConfigFile())
}

func GetEnvKey(flagKey string) string {
	return share.PREFIX + strings.ToUpper(flagKey)
}

// SetConfig 设置配置值并更新环境变量
func SetConfig(key, value string) {
	envKey := key
	if !strings.HasPrefix(key, share.PREFIX) {
		envKey = GetEnvKey(key)
	}
	configMap[envKey] = value
	os.Setenv(envKey, value)
}

// ClearConfig 清除指定配置
func ClearConfig(key string) {
	envKey := key
	if !strings.HasPrefix(key, share.PREFIX) {
		envKey = GetEnvKey(key)
	}
	delete(configMap, envKey)
	os.Unsetenv(envKey)
}

// ClearAllConfig 清除所有配置
func ClearAllConfig() {
	for key := range configMap {
		os.Unsetenv(key)
	}
	configMap = make(map[string]string)
}
