package domain

import "errors"

const MaxIdentityLen = 36

var (
	ErrIdentityEmpty   = errors.New("identity empty")
	ErrIdentityTooLong = errors.New("identity too long")
)

// Identity is a client-declared display id, independent of connection
// lifetime. Two connections may declare the same identity; it is a
// display convenience, not an auth mechanism.
type Identity string

// NewIdentity is a tiny helper to keep validation out of adapters.
func NewIdentity(raw string) (Identity, error) {
	if len(raw) == 0 {
		return "", ErrIdentityEmpty
	}
	if len(raw) > MaxIdentityLen {
		return "", ErrIdentityTooLong
	}
	return Identity(raw), nil
}
