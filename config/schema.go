package config

// ConfigKeyInfo 存储配置键的相关信息
type ConfigKeyInfo struct {
	Description string   // 配置项描述
	Options     []string // 可选值，如果为空则表示没有限制
	Type        string   // 配置项类型，默认为 "string"
}

// 配置键常量定义
const (
	KeyLang    = "lang"
	KeyDebug   = "debug_log"
	KeyWorkers = "workers"
	KeyConfig  = "config_file"
)

// ConfigKeys 存储所有可持久化的配置键及其信息
var ConfigKeys = map[string]ConfigKeyInfo{
	KeyLang: {
		Description: "Set language",
		Options:     []string{"en", "zh-CN"},
		Type:        "string",
	},
	KeyDebug: {
		Description: "Enable debug logging",
		Options:     []string{"true", "false"},
		Type:        "bool",
	},
	KeyWorkers: {
		Description: "Set mirror concurrency",
		Options:     []string{},
		Type:        "int",
	},
	KeyConfig: {
		Description: "Set default plugin config file",
		Options:     []string{},
		Type:        "string",
	},
}

// GetConfigDescription 获取配置键的描述
func GetConfigDescription(key string) string {
	if info, exists := ConfigKeys[key]; exists {
		return info.Description
	}
	return ""
}

// GetConfigOptions 获取配置键的可选值
func GetConfigOptions(key string) []string {
	if info, exists := ConfigKeys[key]; exists {
		return info.Options
	}
	return nil
}

// IsValidConfigKey 是否为已知配置键
func IsValidConfigKey(key string) bool {
	_, ok := ConfigKeys[key]
	return ok
}

// IsValidConfigOption 检查给定的值是否是配置键的有效选项
func IsValidConfigOption(key, value string) bool {
	options := GetConfigOptions(key)
	if len(options) == 0 {
		// 如果没有定义选项，则认为所有值都有效
		return true
	}
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
