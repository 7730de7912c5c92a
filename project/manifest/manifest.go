// Package manifest 将目录树序列化为 JSON 清单，内容变化时才写入磁盘。
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sjzsdu/dirtree/helper"
	jsonx "github.com/sjzsdu/dirtree/helper/json"
	"github.com/sjzsdu/dirtree/project"
	"github.com/sjzsdu/dirtree/share"
	"github.com/spf13/afero"
)

// WriteError 清单读取或写入失败
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("manifest %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer 变更门控的清单写入器
type Writer struct {
	Fs   afero.Fs
	Path string
	Log  logrus.FieldLogger
}

// NewWriter 创建写入器，fs 为 nil 时使用操作系统文件系统
func NewWriter(fs afero.Fs, path string) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{
		Fs:   fs,
		Path: path,
		Log:  share.Component("manifest").WithField("path", path),
	}
}

// Encode 返回森林的规范 JSON：紧凑、不转义 HTML、键顺序固定
func Encode(f *project.Forest) ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	return jsonx.MarshalNoEscape(f)
}

// Write 序列化森林，仅当与磁盘上的内容不同时写入
//
// 文件不存在视为空内容。返回值表示是否发生了写入。
func (w *Writer) Write(f *project.Forest) (bool, error) {
	data, err := Encode(f)
	if err != nil {
		return false, &WriteError{Path: w.Path, Op: "encode", Err: err}
	}
	return w.WriteBytes(data)
}

// WriteBytes 对已编码的内容做变更门控写入
func (w *Writer) WriteBytes(data []byte) (bool, error) {
	current, _, err := helper.ReadFileIfExists(w.Fs, w.Path)
	if err != nil {
		return false, &WriteError{Path: w.Path, Op: "read", Err: err}
	}
	if bytes.Equal(current, data) {
		w.Log.Debug("manifest unchanged")
		return false, nil
	}
	if err := helper.WriteFileAtomic(w.Fs, w.Path, data); err != nil {
		return false, &WriteError{Path: w.Path, Op: "write", Err: err}
	}
	w.Log.WithField("bytes", len(data)).Info("manifest written")
	return true, nil
}

// Load 读取并解析磁盘上的清单
func Load(fs afero.Fs, path string) (*project.Forest, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode 解析清单内容
func Decode(data []byte) (*project.Forest, error) {
	f := &project.Forest{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return f, nil
}
