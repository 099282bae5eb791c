package service

import "errors"

// ErrInvalidInput rejects malformed requests before any scoring or
// persistence work begins.
var ErrInvalidInput = errors.New("invalid input")
