package graph

import (
	"encoding/binary"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns content hash of parts, each part is prefixed with its length so that part boundaries are part of the hash
func Hash(parts ...[]byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	for _, part := range parts {
		if err = binary.Write(hash, binary.LittleEndian, uint64(len(part))); err != nil {
			return 0, err
		}
		if _, err = hash.Write(part); err != nil {
			return 0, err
		}
	}
	return hash.Sum64(), nil
}
