package beacon

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// RootLength is the byte length of a block root.
const RootLength = 32

// Root is the 32-byte identifier of a slot's canonical block header.
// The zero value is the sentinel for "no block at this slot".
type Root [RootLength]byte

// ParseRoot decodes a 0x-prefixed hex string into a Root.
func ParseRoot(s string) (Root, error) {
	var root Root

	h := strings.TrimPrefix(s, "0x")
	if len(h) != RootLength*2 {
		return root, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidRoot, RootLength*2, len(h))
	}

	b, err := hex.DecodeString(h)
	if err != nil {
		return root, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	copy(root[:], b)
	return root, nil
}

// Hex returns the 0x-prefixed hex encoding of the root.
func (r Root) Hex() string {
	return "0x" + hex.EncodeToString(r[:])
}

// IsZero reports whether the root is the empty sentinel.
func (r Root) IsZero() bool {
	return r == Root{}
}

// String implements fmt.Stringer.
func (r Root) String() string {
	return r.Hex()
}
