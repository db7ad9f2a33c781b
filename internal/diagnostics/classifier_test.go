package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   Category
	}{
		{"model not found with 404", "Error: model not found (404)", ModelNotFound},
		{"model words in any order", "Found no such MODEL: it is not available", ModelNotFound},
		{"raw 404 marker", "HTTP 404", ModelNotFound},
		{"quota", "You exceeded your current quota", RateLimited},
		{"rate limit phrase", "Rate Limit reached for requests", RateLimited},
		{"429", "status=429", RateLimited},
		{"rate limit beats auth", "error 403 ... 429 too many requests", RateLimited},
		{"api key", "Invalid API key provided", AuthFailure},
		{"unauthorized", "401 Unauthorized", AuthFailure},
		{"403", "request failed with 403", AuthFailure},
		{"command not found", "sh: 1: jq: command not found", CommandNotFound},
		{"no such file", "exec: no such file or directory", CommandNotFound},
		{"plain not found", "binary not found", CommandNotFound},
		{"generic", "segmentation fault", Generic},
		{"empty output", "", Generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.output).Category)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	output := "Error: quota exhausted, see https://example.com/auth"
	first := Classify(output)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(output))
	}
}

func TestSignatureOrderMatchesPriority(t *testing.T) {
	want := []Category{ModelNotFound, RateLimited, AuthFailure, CommandNotFound}
	got := make([]Category, 0, len(Signatures))
	for _, sig := range Signatures {
		got = append(got, sig.Category)
	}
	assert.Equal(t, want, got)
}

func TestEverySignatureMarkerSelectsItsCategory(t *testing.T) {
	// Markers are checked in isolation; a marker shadowed by a higher priority
	// signature would break the table.
	for _, sig := range Signatures {
		for _, marker := range sig.AnyOf {
			assert.Equal(t, sig.Category, Classify("xx "+marker+" xx").Category, "marker %q", marker)
		}
		for _, group := range sig.AllOf {
			text := ""
			for _, marker := range group {
				text += marker + " "
			}
			assert.Equal(t, sig.Category, Classify(text).Category, "group %v", group)
		}
	}
}

func TestHintsCarryRemediation(t *testing.T) {
	for _, category := range []Category{ModelNotFound, RateLimited, AuthFailure, CommandNotFound, Generic} {
		hint := HintFor(category)
		assert.Equal(t, category, hint.Category)
		assert.NotEmpty(t, hint.Title)
		assert.NotEmpty(t, hint.Remediation)
	}
	assert.Equal(t, Generic, HintFor(Category("bogus")).Category)
}
