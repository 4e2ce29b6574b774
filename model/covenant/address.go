package covenant

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address represents the 8 byte identifier of an account principal.
//
// The engine treats addresses as opaque, pre-authenticated caller identities;
// how they are derived (key material, registration, ...) is the host's
// concern.
type Address [AddressLength]byte

const (
	// AddressLength is the size of an account address in bytes.
	AddressLength = 8
)

// ZeroAddress is the null address. It is not a valid participant in any
// engine operation.
var ZeroAddress = Address{}

// HexToAddress converts a hex string to an Address.
func HexToAddress(h string) (Address, error) {
	h = strings.TrimPrefix(h, "0x")
	b, err := hex.DecodeString(h)
	if err != nil {
		return ZeroAddress, fmt.Errorf("could not decode hex address (%s): %w", h, err)
	}
	if len(b) != AddressLength {
		return ZeroAddress, fmt.Errorf("invalid address length (got: %d, expected: %d)", len(b), AddressLength)
	}
	return BytesToAddress(b), nil
}

// BytesToAddress returns Address with value b.
//
// If b is larger than 8 bytes, b is cropped from the left.
// If b is smaller than 8 bytes, b is padded with zeroes at the front.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// Bytes returns the byte representation of the address.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the hex string representation of the address.
func (a Address) Hex() string {
	return hex.EncodeToString(a.Bytes())
}

// String returns the string representation of the address.
func (a Address) String() string {
	return a.Hex()
}

// IsZero returns true if this is the null address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// MarshalText implements encoding.TextMarshaler, so addresses render as hex
// in textual encodings (config files, JSON summaries).
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	addr, err := HexToAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
