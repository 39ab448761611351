package storage

import "fmt"

// StorageError wraps any failure coming out of the persistence layer so that
// callers can distinguish storage trouble from policy rejections or delivery
// failures and degrade gracefully instead of crashing the pipeline.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
