package catalog

import "fmt"

// LoadError is a whole-catalog load failure (fetch or decode). It is fatal
// to the load cycle it occurred in: the previous catalog, if any, stays
// queryable.
type LoadError struct {
	Stage string // "fetch" or "decode"
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load failed (%s): %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
