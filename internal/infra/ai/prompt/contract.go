package prompt

import (
	"fmt"
)

// MaxContractChars is the hard character budget for contract text embedded in
// the prompt. Text beyond it is silently dropped from analysis.
const MaxContractChars = 40000

// GetSystemPrompt provides strict directions and the authoritative schema for
// JSON output. The normalizer accepts exactly this shape; keep them in sync.
func GetSystemPrompt() string {
	return `You are a contract law expert advising an employee. Analyze the contract and produce one valid JSON object only (no markdown, no code fences, no commentary) that follows the schema below.

Requirements:
- Output must be a single JSON object.
- score is an integer from 0 to 100 where higher means safer/fairer for the signer.
- Use lowercase severity values: high, medium, low, info.
- analysis is an array of objects; every entry must include title, description, severity, and details.
- icon is one of: alert-triangle, zap, check-circle, message-square.
- Populate every top-level field; use placeholder values when the contract does not contain the information.

Schema (example with placeholder values):
{
  "score": 72,
  "overview": "<two to four sentence narrative about the overall fairness of this contract>",
  "analysis": [
    {
      "icon": "alert-triangle",
      "title": "<short clause-level issue title>",
      "description": "<one sentence description>",
      "severity": "<high|medium|low|info>",
      "details": "<longer explanation with practical advice>"
    }
  ],
  "contractMeta": {"type": "<contract type>", "parties": "<parties if identifiable>", "duration": "<term if stated>"},
  "categories": {"termination": {"score": 0, "comment": "<string>"}, "payment": {"score": 0, "comment": "<string>"}, "restraints": {"score": 0, "comment": "<string>"}},
  "redFlags": ["<short red-flag sentence>"],
  "loopholes": [{"clause": "<clause reference>", "risk": "<what could be exploited>", "severity": "<high|medium|low|info>"}],
  "negotiation": {"<topic>": "<concrete negotiation advice>"}
}`
}

// GetUserPrompt embeds the contract text, truncated to MaxContractChars, and
// names the language the narrative fields should be written in.
func GetUserPrompt(text, language string) string {
	if language == "" {
		language = "en"
	}
	return fmt.Sprintf("Write narrative fields in language %q. Analyze this contract and respond with the JSON per schema.\n\nContract text:\n%s", language, Truncate(text, MaxContractChars))
}

// Truncate cuts s to at most max bytes. Token-budget guard, not a feature.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
