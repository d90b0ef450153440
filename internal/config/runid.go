// internal/config/runid.go
package config

import "github.com/google/uuid"

// generatedRunID derives a non-zero int64 run id from a fresh uuid,
// for operators who want task ids run-id-prefixed without having to
// pick an integer themselves.
func generatedRunID() int64 {
	id := uuid.New()
	n := int64(uint64(id[0])<<56 | uint64(id[1])<<48 | uint64(id[2])<<40 | uint64(id[3])<<32 |
		uint64(id[4])<<24 | uint64(id[5])<<16 | uint64(id[6])<<8 | uint64(id[7]))
	if n == 0 {
		return 1
	}
	if n < 0 {
		n = -n
	}
	return n
}
