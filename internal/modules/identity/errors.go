package identity

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProvisionFailed    = errors.New("identity provisioning failed")
)
