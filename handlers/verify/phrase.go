package verify

import (
	"math/rand"
	"strings"
)

// Vocabulary is the fixed word list challenge phrases are drawn from.
var Vocabulary = []string{"apple", "banana", "carrot", "cat", "house", "flower", "giraffe"}

// GeneratePhrase returns a random three-word hyphen-joined challenge
// phrase, e.g. "cat-house-banana". Words may repeat.
func GeneratePhrase() string {
	words := make([]string, 3)
	for n := range words {
		words[n] = Vocabulary[rand.Intn(len(Vocabulary))]
	}
	return strings.Join(words, "-")
}

// PhraseInBio reports whether the bio text proves control of the account:
// an exact substring match of the current phrase.
func PhraseInBio(bio, phrase string) bool {
	return phrase != "" && strings.Contains(bio, phrase)
}
