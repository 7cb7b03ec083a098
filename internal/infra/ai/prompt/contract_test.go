package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSystemPrompt_SchemaContract(t *testing.T) {
	p := GetSystemPrompt()

	// Fields the normalizer must be able to accept; schema and normalizer are
	// kept in lockstep.
	for _, field := range []string{`"score"`, `"overview"`, `"analysis"`, `"title"`, `"description"`, `"severity"`, `"details"`, `"contractMeta"`, `"categories"`, `"redFlags"`, `"loopholes"`, `"negotiation"`} {
		assert.Contains(t, p, field)
	}
	assert.Contains(t, p, "high|medium|low|info")
	assert.Contains(t, p, "one valid JSON object only")
}

func TestGetUserPrompt_TruncatesText(t *testing.T) {
	long := strings.Repeat("a", MaxContractChars+5000)
	p := GetUserPrompt(long, "en")
	assert.Less(t, len(p), MaxContractChars+500)
	assert.Contains(t, p, `"en"`)
}

func TestGetUserPrompt_DefaultLanguage(t *testing.T) {
	p := GetUserPrompt("some contract", "")
	assert.Contains(t, p, `"en"`)
	assert.Contains(t, p, "some contract")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abcd", 2))
}
