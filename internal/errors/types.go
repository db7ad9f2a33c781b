package errors

import (
	"errors"
	"fmt"
)

// Kind represents the classification of faults raised while running a provider.
type Kind int

const (
	// KindConfiguration - the provider command cannot be located or spawned
	KindConfiguration Kind = iota + 1
	// KindResource - the temporary prompt file could not be created, written or removed
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Fault is an error the runner cannot recover into an execution result.
//
// Ordinary non-zero provider exits and timeouts are not faults: they are
// reported through the execution result.
type Fault struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "locate", "create temp file"
	Err     error
	Message string // operator-facing guidance
}

func (e *Fault) Error() string {
	if e.Message != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	if e.Op != "" {
		return fmt.Sprintf("%s fault: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s fault: %v", e.Kind, e.Err)
}

func (e *Fault) Unwrap() error {
	return e.Err
}

// Configuration wraps err as a configuration fault.
func Configuration(op string, err error, message string) error {
	return &Fault{Kind: KindConfiguration, Op: op, Err: err, Message: message}
}

// Resource wraps err as a resource fault.
func Resource(op string, err error) error {
	return &Fault{Kind: KindResource, Op: op, Err: err}
}

// KindOf returns the fault kind carried by err, or 0 when err is not a fault.
func KindOf(err error) Kind {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault.Kind
	}
	return 0
}

// IsConfiguration checks if an error is a configuration fault
func IsConfiguration(err error) bool {
	return KindOf(err) == KindConfiguration
}

// IsResource checks if an error is a resource fault
func IsResource(err error) bool {
	return KindOf(err) == KindResource
}

// Guidance returns the operator-facing message of a fault, falling back to the
// error text for anything else.
func Guidance(err error) string {
	if err == nil {
		return ""
	}
	var fault *Fault
	if errors.As(err, &fault) && fault.Message != "" {
		return fault.Message
	}
	return err.Error()
}
