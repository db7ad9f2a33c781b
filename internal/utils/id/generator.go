package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewRunID generates a time-ordered identifier for one provider invocation.
func NewRunID() string {
	return newIdentifier("run")
}

func newIdentifier(prefix string) string {
	body := ""
	if v7, err := uuid.NewV7(); err == nil {
		body = v7.String()
	} else {
		body = uuid.NewString()
	}
	return fmt.Sprintf("%s-%s", prefix, body)
}

// Short returns the trailing random segment of an identifier for compact
// display in log prefixes.
func Short(identifier string) string {
	idx := strings.LastIndex(identifier, "-")
	if idx < 0 || idx == len(identifier)-1 {
		return identifier
	}
	return identifier[idx+1:]
}
