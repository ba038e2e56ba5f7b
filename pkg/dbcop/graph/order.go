package graph

import (
	"fmt"
	"strings"
)

// genericCompare gives a total, deterministic (if arbitrary) order over any
// comparable vertex type, so that topological sorts and cycle reports are
// reproducible across runs instead of depending on Go's randomized map
// iteration order. The vertex types used by this checker (TransactionId and
// its split-phase variant) are small structs of unsigned integers, so the
// %v-based comparison is cheap and stable.
func genericCompare[T comparable](a, b T) int {
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}
