package catalog

import "fmt"

// OptionError reports a value that is not part of a field's catalog.
type OptionError struct {
	Field string
	Value any
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s: %v is not a catalog option", e.Field, e.Value)
}
