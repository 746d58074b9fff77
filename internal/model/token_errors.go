package model

import "errors"

var (
	ErrMalformedToken  = errors.New("token is malformed")
	ErrExpiredToken    = errors.New("token expired")
	ErrRevokedToken    = errors.New("token revoked")
	ErrUnparsableToken = errors.New("token cannot be decoded")
)
