package service

import "errors"

var (
	ErrNotFound     = errors.New("task not found")
	ErrInvalidInput = errors.New("title and description are required")
	ErrStoreNil     = errors.New("task store is nil")
)
