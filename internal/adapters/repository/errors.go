package repository

import "errors"

// Sentinel kinds for provider errors.
var (
	ErrStateFile = errors.New("read pipeline state file failed")
	ErrQuery     = errors.New("query pipeline state failed")
	ErrConnect   = errors.New("connect to pipeline store failed")
)
