package verify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePhraseShape(t *testing.T) {
	for n := 0; n < 50; n++ {
		phrase := GeneratePhrase()
		parts := strings.Split(phrase, "-")
		assert.Len(t, parts, 3)
		for _, word := range parts {
			assert.Contains(t, Vocabulary, word)
		}
	}
}

func TestPhraseInBio(t *testing.T) {
	assert.True(t, PhraseInBio("hello cat-house-banana world", "cat-house-banana"))
	assert.True(t, PhraseInBio("cat-house-banana", "cat-house-banana"))
	assert.False(t, PhraseInBio("cat house banana", "cat-house-banana"))
	assert.False(t, PhraseInBio("", "cat-house-banana"))
	assert.False(t, PhraseInBio("anything", ""))
}

func TestRegenerationInvalidatesOldPhrase(t *testing.T) {
	state := &challenge{phrase: "apple-banana-carrot"}
	old := state.phrase

	state.phrase = "cat-house-flower"
	bio := "my bio contains " + old

	assert.False(t, PhraseInBio(bio, state.phrase), "old phrase in bio must not satisfy the new challenge")
	assert.True(t, PhraseInBio("my bio contains "+state.phrase, state.phrase))
}
