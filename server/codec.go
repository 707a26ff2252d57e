package server

import (
	"encoding/binary"
	"math"

	"github.com/replicore-go/replicore/replicate"
	"github.com/vmihailenco/msgpack/v5"
)

// decodeFloat64LE reads a little-endian IEEE-754 payload (spec.md
// §6.3's wire format) into a float64 slice.
func decodeFloat64LE(payload []byte) []float64 {
	out := make([]float64, len(payload)/8)
	for i := range out {
		bits := binary.LittleEndian.Uint64(payload[i*8:])
		out[i] = math.Float64frombits(bits)
	}
	return out
}

// encodeResults MessagePack-encodes the group-key-to-result mapping
// calculate replies with.
func encodeResults(results map[string]*replicate.PooledResult) ([]byte, error) {
	return msgpack.Marshal(results)
}
