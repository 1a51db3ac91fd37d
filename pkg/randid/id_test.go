package randid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]*$`)

func TestGenerate(t *testing.T) {
	for _, n := range []int{0, 1, 6, 16} {
		id := Generate(n)
		assert.Len(t, id, n)
		assert.Regexp(t, idPattern, id)
	}
}

func TestGenerate_distinct(t *testing.T) {
	seen := make(map[string]struct{}, 64)
	for range 64 {
		seen[Generate(6)] = struct{}{}
	}
	// 36^6 possible values; a collision among 64 draws is vanishingly rare.
	require.Greater(t, len(seen), 60)
}
