package passrepo

import "errors"

var (
	ErrNotFound      = errors.New("pass not found")
	ErrAlreadyExists = errors.New("pass already exists")
)
