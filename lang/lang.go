// Package lang 命令行文案的多语言支持，消息 ID 即英文原文
package lang

import (
	"embed"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	current   language.Tag
)

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	entries, _ := localeFS.ReadDir("locales")
	for _, e := range entries {
		bundle.LoadMessageFileFS(localeFS, "locales/"+e.Name())
	}
	SetLanguage(detect())
}

// detect 优先读取 DIRTREE_LANG，其次是 LANG（如 zh_CN.UTF-8）
func detect() string {
	for _, key := range []string{"DIRTREE_LANG", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "en"
}

// SetLanguage 切换当前语言，无法识别时回退到英文
func SetLanguage(tag string) {
	tag = strings.SplitN(tag, ".", 2)[0]
	tag = strings.ReplaceAll(tag, "_", "-")
	t, err := language.Parse(tag)
	if err != nil {
		t = language.English
	}

	mu.Lock()
	defer mu.Unlock()
	current = t
	localizer = i18n.NewLocalizer(bundle, t.String())
}

// Current 当前语言
func Current() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T 翻译消息，未找到译文时原样返回
func T(msg string) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	out, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: msg, Other: msg},
	})
	if err != nil || out == "" {
		return msg
	}
	return out
}
