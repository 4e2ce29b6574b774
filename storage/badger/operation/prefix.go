package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/covenantnet/covenant-go/model/covenant"
)

const (
	// codes for db bookkeeping
	codeSequence = 1
	codeSetting  = 2

	// codes for the domain record tables
	codeEscrow   = 10
	codeVoter    = 11
	codeProposal = 12
	codeSession  = 13
	codeListing  = 14
	codeAsset    = 15
	codeAccount  = 16

	// code for the append-only event log
	codeEvent = 20
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint8:
		return []byte{i}
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case string:
		return []byte(i)
	case covenant.Address:
		return i[:]
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
