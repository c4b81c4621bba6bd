package scraper

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsChallengeTitle(t *testing.T) {
	assert.True(t, IsChallengeTitle("Just a moment..."))
	assert.True(t, IsChallengeTitle("Attention Required! | Cloudflare"))
	assert.False(t, IsChallengeTitle("Data Analyst Jobs in Austin, TX | Indeed"))
}

func TestCleanTextAndSnippet(t *testing.T) {
	assert.Equal(t, "Acme Corp", CleanText("  Acme \n\tCorp  "))

	long := strings.Repeat("word ", 200)
	s := Snippet(long)
	assert.True(t, strings.HasSuffix(s, "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(s), maxSnippetRunes+1)
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://www.indeed.com", "/rc/clk?jk=1", "https://www.indeed.com/rc/clk?jk=1"},
		{"https://www.indeed.com", "https://other.example/x", "https://other.example/x"},
		{"https://internshala.com", "", ""},
		{"https://internshala.com", "internship/detail/1", "https://internshala.com/internship/detail/1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AbsoluteURL(tt.base, tt.href))
	}
}

func TestFirstTextAndAttr(t *testing.T) {
	doc, err := ParseHTML(`<div class="card"><h3 class="a"> </h3><h4 class="b">Acme</h4><a class="l" href="/x">go</a></div>`)
	require.NoError(t, err)
	card := doc.Find(".card")

	assert.Equal(t, "Acme", FirstText(card, "h3.a", "h4.b"))
	assert.Equal(t, "", FirstText(card, ".missing"))
	assert.Equal(t, "/x", FirstAttr(card, "href", "a.none", "a.l"))
}
