package logging

import (
	"github.com/covenantnet/covenant-go/model/covenant"
)

// Address returns the raw bytes of an account address, for use with
// zerolog's Hex field.
func Address(address covenant.Address) []byte {
	return address.Bytes()
}

// Addresses renders a list of account addresses as hex strings.
func Addresses(addresses []covenant.Address) []string {
	ss := make([]string, 0, len(addresses))
	for _, address := range addresses {
		ss = append(ss, address.Hex())
	}
	return ss
}
