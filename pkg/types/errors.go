package types

import "errors"

// Domain errors shared across pipeline stages
var (
	ErrNotFound     = errors.New("not found")
	ErrNotMarkdown  = errors.New("not a markdown file")
	ErrEmptyInput   = errors.New("input cannot be empty")
	ErrNoChunks     = errors.New("no valid chunks found")
	ErrInvalidLevel = errors.New("invalid detail level")
)
