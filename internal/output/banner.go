package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	cyan = color.New(color.FgCyan).SprintFunc()
	gray = color.New(color.FgHiBlack).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

// Banner describes a run that is about to start.
type Banner struct {
	Provider       string
	Mode           string
	TimeoutSeconds int
	Stream         bool
}

func (b Banner) String() string {
	var details []string
	if b.TimeoutSeconds > 0 {
		details = append(details, fmt.Sprintf("timeout %ds", b.TimeoutSeconds))
	} else {
		details = append(details, "no timeout")
	}
	if b.Mode != "" {
		details = append(details, b.Mode+" mode")
	}
	if b.Stream {
		details = append(details, "streaming")
	}
	return fmt.Sprintf("%s %s %s\n", cyan("▸"), bold(b.Provider), gray("("+strings.Join(details, ", ")+")"))
}
