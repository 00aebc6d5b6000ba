package errors

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalid     = errors.New("invalid")
	ErrInternal    = errors.New("internal")
	ErrUnavailable = errors.New("backend unavailable")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
