package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidListName = errors.New("invalid list name")
)
