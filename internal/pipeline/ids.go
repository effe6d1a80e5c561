package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26 Crockford Base32 characters over a 48-bit millisecond
// timestamp plus 80 random bits, so IDs sort by submission time.

var (
	idMu    sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewID returns a fresh job ID. IDs generated within the same millisecond
// carry an increasing sequence so they stay unique and ordered.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 encodes 128 bits as 26 Crockford characters. The first
// character carries only the top 3 bits so the remaining 125 split evenly
// into 5-bit groups.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	out[0] = crockford[b[0]>>5]

	bits := uint32(b[0] & 0x1f)
	nbits := 5
	next := 1
	for i := 1; i < 26; i++ {
		for nbits < 5 {
			bits = bits<<8 | uint32(b[next])
			nbits += 8
			next++
		}
		nbits -= 5
		out[i] = crockford[(bits>>uint(nbits))&0x1f]
		bits &= (1 << uint(nbits)) - 1
	}
	return string(out[:])
}
