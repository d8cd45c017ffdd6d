package objstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/modelgridgo/internal/typedesc"
)

// UnknownTypeError reports an attempt to create an object of a type the store
// has no factory for.
type UnknownTypeError struct {
	Requested typedesc.Type
	Creatable []typedesc.Type
}

func (e *UnknownTypeError) Error() string {
	names := make([]string, len(e.Creatable))
	for i, t := range e.Creatable {
		names[i] = t.String()
	}
	sort.Strings(names)
	return fmt.Sprintf("cannot create an object of type %s: this container can only create instances of [%s]",
		e.Requested, strings.Join(names, ", "))
}

// DuplicateNameError reports an attempt to create an object under a name that
// is already taken in the store.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("an object with name %q already exists in this container", e.Name)
}
