package sessions

import "errors"

// ErrUnauthorized covers bad credentials, unknown tokens and expired tokens
// alike. Callers are never told which one it was.
var ErrUnauthorized = errors.New("unauthorized")
