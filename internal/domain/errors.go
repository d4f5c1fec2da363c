package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrFormat          = errors.New("invalid format")
	ErrSchema          = errors.New("invalid manifest schema")
	ErrConflict        = errors.New("directory already exists")
	ErrPathEscape      = errors.New("path escapes destination root")
	ErrNetwork         = errors.New("download failed")
	ErrExternalProcess = errors.New("external process failed")
	ErrRegistry        = errors.New("launcher profile registry error")
	ErrCancelled       = errors.New("cancelled")
)
