package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExact(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.Exact("acme", "acme"))
	assert.Equal(t, 0.0, s.Exact("acme", "acmee"))
}

func TestEdit(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.Edit("acme", "acme"))
	assert.InDelta(t, 0.75, s.Edit("acme", "acms"), 0.001)
	assert.Equal(t, 1.0, s.Edit("", ""))
}

func TestJaroWinkler(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.JaroWinkler("martha", "martha"))
	assert.True(t, s.JaroWinkler("martha", "marhta") > 0.9)
	assert.Equal(t, 0.0, s.JaroWinkler("abc", ""))
}

func TestPhonetic(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.Phonetic("smith", "smyth"))
	assert.True(t, s.Phonetic("smith", "jones") < 1.0)
}

func TestTokenSort(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.TokenSort("acme corp", "corp acme"))
	assert.True(t, s.TokenSort("acme widgets inc", "widgets inc") < 1.0)
}

func TestScoresStayInRange(t *testing.T) {
	s := NewScorer()
	pairs := [][2]string{
		{"acme corp", "acme corporation"},
		{"jane", "janet"},
		{"555-1234", "5551234"},
	}
	for _, p := range pairs {
		for _, score := range []float64{s.Exact(p[0], p[1]), s.Edit(p[0], p[1]), s.JaroWinkler(p[0], p[1]), s.Phonetic(p[0], p[1]), s.TokenSort(p[0], p[1])} {
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}
