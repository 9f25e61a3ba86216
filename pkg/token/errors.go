package token

import "errors"

var (
	ErrMissingSecret     = errors.New("token: missing signing secret")
	ErrInvalidToken      = errors.New("token: invalid token")
	ErrUnexpectedPayload = errors.New("token: payload cannot be encoded")
)
