package helper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sjzsdu/dirtree/share"
	"github.com/spf13/afero"
)

// ReadFileIfExists 读取文件内容，文件不存在时返回 (nil, false, nil)
func ReadFileIfExists(fs afero.Fs, path string) ([]byte, bool, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// EnsureDir 确保目录存在（递归创建）
func EnsureDir(fs afero.Fs, dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := fs.MkdirAll(dir, share.DIR_PERM); err != nil {
		return fmt.Errorf("创建目录失败 %s: %w", dir, err)
	}
	return nil
}

// WriteFileAtomic 先写入同目录下的临时文件，再 rename 覆盖目标文件
// 父目录不存在时会先创建
func WriteFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(fs, dir); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return err
	}
	if err := fs.Chmod(tmpName, share.FILE_PERM); err != nil {
		fs.Remove(tmpName)
		return err
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("重命名 %s 失败: %w", path, err)
	}
	return nil
}
