package prereq

import (
	"errors"
	"fmt"

	pkgerrors "github.com/yungbote/learnpath-backend/internal/pkg/errors"
)

var (
	ErrInvalidSignature = fmt.Errorf("invalid statement signature: %w", pkgerrors.ErrInvalidArgument)
	ErrStoreUnavailable = fmt.Errorf("resource store unavailable: %w", pkgerrors.ErrUnavailable)
	ErrNilResource      = fmt.Errorf("nil resource: %w", pkgerrors.ErrInvalidArgument)
)

// SignatureError reports a statement whose noun or verb is blank.
type SignatureError struct {
	Index int
	Role  Role
	Noun  string
	Verb  string
}

func (e *SignatureError) Error() string {
	if e == nil {
		return ""
	}
	role := string(e.Role)
	if role == "" {
		role = "statement"
	}
	return fmt.Sprintf("%s %d: noun=%q verb=%q: %s", role, e.Index, e.Noun, e.Verb, ErrInvalidSignature.Error())
}

func (e *SignatureError) Unwrap() error { return ErrInvalidSignature }

// StoreError wraps a collaborator failure. It matches both ErrStoreUnavailable
// and the underlying cause.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("resource store unavailable: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStoreUnavailable, e.Err} }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
