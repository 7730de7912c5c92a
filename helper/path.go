package helper

import (
	"os"
	"path/filepath"
	"strings"
)

// StandardizePath 将路径转换为以 / 分隔、不带前导 / 的相对形式，供 glob 匹配使用
func StandardizePath(path string) string {
	cleanPath := filepath.ToSlash(filepath.Clean(path))

	// 处理 Windows 路径分隔符
	cleanPath = strings.ReplaceAll(cleanPath, "\\", "/")
	cleanPath = strings.TrimPrefix(cleanPath, "./")
	cleanPath = strings.TrimLeft(cleanPath, "/")
	if cleanPath == "." {
		return ""
	}
	return cleanPath
}

// ResolvePath 将相对路径解析为基于 base 的绝对路径
func ResolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// IsOutside 判断相对路径是否跳出了基准目录
func IsOutside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

// WorkDir 返回当前工作目录，override 非空时优先使用
func WorkDir(override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	return os.Getwd()
}
