package conferences

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generateUniqueCode(8)
		require.NoError(t, err)
		assert.Len(t, code, 8)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q", r)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 95, "codes should be effectively unique")
}

func TestCodeAlphabetAvoidsAmbiguousRunes(t *testing.T) {
	for _, r := range "01IO" {
		assert.NotContains(t, codeAlphabet, string(r))
	}
}
