package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned by operations that need an authenticated
	// session when none has been established yet.
	ErrNoSession = errors.New("no active session")

	// ErrSignUpOnRemote wraps a failed account registration. Nothing was
	// persisted anywhere when this is returned.
	ErrSignUpOnRemote = errors.New("sign up on remote failed")

	// ErrSignInOnRemote wraps a rejected credential check during resume.
	ErrSignInOnRemote = errors.New("sign in on remote failed")
)

// OrphanedIdentityError reports a profile write that failed after the remote
// auth identity had already been created. The identity is not rolled back;
// the owner key is carried so the caller can retry onboarding against it.
type OrphanedIdentityError struct {
	OwnerKey string
	Err      error
}

func (e *OrphanedIdentityError) Error() string {
	return fmt.Sprintf("profile write failed after auth identity %q was created: %v", e.OwnerKey, e.Err)
}

func (e *OrphanedIdentityError) Unwrap() error { return e.Err }
