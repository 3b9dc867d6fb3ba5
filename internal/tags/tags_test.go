package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_SplitsTrimsAndDedupes(t *testing.T) {
	got := Parse(" go, Web |  GO \n idioms,, ,web ")
	assert.Equal(t, []string{"go", "Web", "idioms"}, got)
}

func TestParse_EmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse(" , | \n "))
}

func TestParse_IdempotentOnOwnOutput(t *testing.T) {
	inputs := []string{
		"a,b,c",
		" Go | web \n GO, idioms ",
		"One,one,ONE",
		"",
	}
	for _, input := range inputs {
		first := Parse(input)
		again := Parse(Join(first))
		assert.Equal(t, first, again, "input %q", input)
	}
}

func TestMatchName(t *testing.T) {
	assert.True(t, MatchName("", "anything", "at all"))
	assert.True(t, MatchName("home", "Go Home", ""))
	assert.True(t, MatchName("idiom", "go home", "an IDIOM"))
	assert.False(t, MatchName("missing", "go home", "idiom"))
}

func TestMatchTags(t *testing.T) {
	list := []string{"Go", "web-dev", "Idioms"}

	assert.True(t, MatchTags("", list))
	assert.True(t, MatchTags("go", list))
	assert.True(t, MatchTags("go, web", list))
	assert.True(t, MatchTags("GO|idiom", list))
	assert.False(t, MatchTags("go, rust", list), "every needle must match some tag")
	assert.False(t, MatchTags("rust", nil))
}
