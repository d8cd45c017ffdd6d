package engine

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/modelgridgo/internal/typedesc"
)

// IncompatibleViewError reports a rule whose declared subject type no
// projection of the subject node can satisfy. The legal writable view
// descriptions are included so the message is actionable.
type IncompatibleViewError struct {
	Descriptor   string
	NodePath     string
	Requested    typedesc.Type
	WritableDesc []string
}

func (e *IncompatibleViewError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: cannot view node %q as %s", e.Descriptor, e.NodePath, e.Requested)
	if len(e.WritableDesc) > 0 {
		fmt.Fprintf(&sb, "; legal writable views: %s", strings.Join(e.WritableDesc, "; "))
	}
	return sb.String()
}

// RuleError wraps a failure raised while a rule was running, attaching the
// rule's provenance descriptor.
type RuleError struct {
	Descriptor string
	Err        error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %v", e.Descriptor, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
