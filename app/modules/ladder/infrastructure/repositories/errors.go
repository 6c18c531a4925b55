package ladderdb

import "errors"

// ErrRankNotFound means no ladder entry matches the requested order. Callers
// treat this as an expected outcome, not a fault.
var ErrRankNotFound = errors.New("rank not found")
