// Package diagnostics turns failed provider output into a single remediation
// hint.
//
// Classification is a best-effort diagnostic aid: it matches lowercased text
// against an ordered signature table and the first match wins. It is not a
// guaranteed-correct classifier and never looks at exit status.
package diagnostics

import "strings"

// Category identifies a class of provider failure.
type Category string

const (
	ModelNotFound   Category = "ModelNotFound"
	RateLimited     Category = "RateLimited"
	AuthFailure     Category = "AuthFailure"
	CommandNotFound Category = "CommandNotFound"
	Generic         Category = "Generic"
)

// Hint is the remediation shown for one failed execution.
type Hint struct {
	Category    Category
	Title       string
	Remediation string
}

// Signature describes when a category applies. A signature matches when any
// of its AnyOf markers occurs, or when every marker of one AllOf group occurs.
type Signature struct {
	Category Category
	AnyOf    []string
	AllOf    [][]string
}

// Signatures is the ordered signature table. Order is priority: ties are
// broken by position, not by specificity.
var Signatures = []Signature{
	{
		Category: ModelNotFound,
		AnyOf:    []string{"404"},
		AllOf:    [][]string{{"model", "not", "found"}},
	},
	{
		Category: RateLimited,
		AnyOf:    []string{"quota", "rate limit", "rate_limit", "ratelimit", "too many requests", "429"},
	},
	{
		Category: AuthFailure,
		AnyOf:    []string{"auth", "api key", "api_key", "apikey", "unauthorized", "forbidden", "403"},
	},
	{
		Category: CommandNotFound,
		AnyOf:    []string{"command not found", "not found", "no such"},
	},
}

var hints = map[Category]Hint{
	ModelNotFound: {
		Category:    ModelNotFound,
		Title:       "Model not found",
		Remediation: "The provider could not resolve the requested model. Check the model name passed in PROVIDER (e.g. --model), and list the models your account can use with the provider's own CLI.",
	},
	RateLimited: {
		Category:    RateLimited,
		Title:       "Rate limited or quota exceeded",
		Remediation: "The provider rejected the request because of rate limits or an exhausted quota. Wait and retry later, lower request volume, or switch to a model/plan with a higher quota.",
	},
	AuthFailure: {
		Category:    AuthFailure,
		Title:       "Authentication failed",
		Remediation: "The provider rejected the credentials. Log in again with the provider's CLI or export a valid API key in the environment that runs promptpipe.",
	},
	CommandNotFound: {
		Category:    CommandNotFound,
		Title:       "Command not found",
		Remediation: "Part of the provider invocation could not be found. Check that the provider CLI and any tools it calls are installed and on PATH.",
	},
	Generic: {
		Category:    Generic,
		Title:       "Provider failed",
		Remediation: "The provider exited with an error. Re-run with --stream (or PROMPTPIPE_DEBUG=1) to watch its output live, and try the same command manually.",
	},
}

// Classify returns the hint of the first signature matching output.
func Classify(output string) Hint {
	lower := strings.ToLower(output)
	for _, sig := range Signatures {
		if sig.matches(lower) {
			return HintFor(sig.Category)
		}
	}
	return HintFor(Generic)
}

// HintFor returns the canned hint for category; unknown categories map to
// Generic.
func HintFor(category Category) Hint {
	if hint, ok := hints[category]; ok {
		return hint
	}
	return hints[Generic]
}

func (s Signature) matches(lower string) bool {
	for _, marker := range s.AnyOf {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	for _, group := range s.AllOf {
		if len(group) > 0 && containsAll(lower, group) {
			return true
		}
	}
	return false
}

func containsAll(text string, markers []string) bool {
	for _, marker := range markers {
		if !strings.Contains(text, marker) {
			return false
		}
	}
	return true
}
