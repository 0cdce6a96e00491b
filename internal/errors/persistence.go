package errors

import "fmt"

// PersistenceError wraps a failure of the durable key-value substrate. It
// is surfaced to the caller but never crashes the enclosing session: the
// in-memory results stay valid even when the durable write fails.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed for key %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op, key string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Key: key, Err: err}
}
