// internal/services/errors.go
package services

import "fmt"

// MissingDimensionError signals that a requested breakdown needs a dimension
// the supplied sales view was never enriched with. It is a caller mistake,
// not a data condition, so it propagates as an error instead of a
// soft-absence result.
type MissingDimensionError struct {
	Dimension string
}

func (e *MissingDimensionError) Error() string {
	return fmt.Sprintf("dimension %q not available in sales view", e.Dimension)
}
