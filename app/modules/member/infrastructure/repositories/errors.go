package memberdb

import "errors"

var (
	// ErrMemberNotFound means no member row matches the given identity.
	ErrMemberNotFound = errors.New("member not found")

	// ErrDuplicateIdentity means the Roblox username is already bound to a
	// different Discord account. Existing bindings are never overwritten.
	ErrDuplicateIdentity = errors.New("roblox identity already linked")

	// ErrUnknownRank means a rank commit referenced an order with no ladder
	// entry. Checked at the one mutation point instead of assumed everywhere.
	ErrUnknownRank = errors.New("rank order not present in ladder")
)
