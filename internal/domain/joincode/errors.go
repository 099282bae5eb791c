package joincode

import "errors"

// ErrExhausted means every candidate in the retry budget collided. Fatal to
// the call; the caller may retry the whole operation.
var ErrExhausted = errors.New("unable to allocate join code")
