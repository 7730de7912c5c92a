package project

import (
	"errors"
	"fmt"
)

var (
	ErrNoRoots      = errors.New("no scan roots configured")
	ErrChildOfFile  = errors.New("file node cannot have children")
	ErrInvalidKind  = errors.New("invalid node kind")
	ErrReservedAttr = errors.New("reserved attribute key")
)

// ScanError 某个根目录扫描失败
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
