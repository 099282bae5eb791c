package dataset

import "errors"

// ErrNotFound means neither the record store nor the static snapshot could
// supply the requested dataset.
var ErrNotFound = errors.New("dataset not found")
