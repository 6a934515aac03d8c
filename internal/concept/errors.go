package concept

import "fmt"

// ErrStoreUnavailable indicates the concept store could not serve a request
// (connection lost, transaction failed, schema missing). It is distinct
// from a missing record, which is never an error.
type ErrStoreUnavailable struct {
	Op  string
	Err error
}

func (e *ErrStoreUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("concept store unavailable (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("concept store unavailable (%s)", e.Op)
}

func (e *ErrStoreUnavailable) Unwrap() error { return e.Err }

// Unavailable wraps err as *ErrStoreUnavailable unless it already is one
// or err is nil.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*ErrStoreUnavailable); ok {
		return err
	}
	return &ErrStoreUnavailable{Op: op, Err: err}
}
