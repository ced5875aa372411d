// internal/dataset/errors.go
package dataset

import "fmt"

// DataUnavailableError reports a dataset that could not be located or parsed
// at all. Per-cell parse failures never produce it; those degrade to nil
// fields at load time.
type DataUnavailableError struct {
	Dataset string
	Err     error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("dataset %q unavailable: %v", e.Dataset, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}
