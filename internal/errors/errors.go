package errors

import (
	"errors"
	"fmt"
)

// Common error types for the DevLink client
var (
	// Session errors
	ErrUnauthenticated = errors.New("not authenticated")

	// Request errors
	ErrAuthorizationRejected = errors.New("authorization rejected by server")
	ErrNetworkUnavailable    = errors.New("network unavailable")
	ErrRequestTimeout        = errors.New("request timed out")
	ErrServerRejected        = errors.New("request rejected by server")

	// Renewal errors
	ErrRenewalFailed = errors.New("session renewal failed")

	// Storage errors
	ErrStorageUnavailable = errors.New("credential storage unavailable")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
