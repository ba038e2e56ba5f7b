package linearization

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// hash128 is a 128-bit value built from two independently-seeded 64-bit
// xxhash digests, XOR-combined incrementally as vertices are placed into
// and popped from the linearization. Two 64-bit lanes are used instead of one because a
// single 64-bit Zobrist hash collides too often over the search spaces
// this engine explores to serve as a memoization key on its own.
type hash128 struct {
	lo, hi uint64
}

func (h hash128) xor(other hash128) hash128 {
	return hash128{lo: h.lo ^ other.lo, hi: h.hi ^ other.hi}
}

// zobristValue computes the Zobrist hash contribution of a single vertex:
// two xxhash digests of the vertex's string form, each salted with a
// distinct seed prefix so the lanes are independent.
func zobristValue[Vertex any](v Vertex) hash128 {
	data := []byte(fmt.Sprintf("%v", v))
	return hash128{
		lo: xxhash.Sum64(append(seedPrefix(0), data...)),
		hi: xxhash.Sum64(append(seedPrefix(1), data...)),
	}
}

func seedPrefix(seed uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, seed)
	return buf
}
