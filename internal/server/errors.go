package server

import "errors"

// Console errors
var (
	ErrUnknownOp      = errors.New("unknown command op")
	ErrInvalidCommand = errors.New("invalid command")
	ErrNotRunning     = errors.New("console is not running")
)
