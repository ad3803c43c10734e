package credentials

import "errors"

// ErrMissingCredentials is returned when no source yields both an account name and key.
var ErrMissingCredentials = errors.New("storage credentials not configured")
