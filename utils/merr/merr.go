// Package merr provides helpers for merging errors from cleanup paths with
// the error a function is already returning.
package merr

import (
	"io"

	"github.com/hashicorp/go-multierror"
)

// CloseAndMergeError closes the closable and merges the close error into err.
// It is meant for deferred closes where the close failure must not be lost:
//
//	defer func() {
//		err = merr.CloseAndMergeError(reader, err)
//	}()
func CloseAndMergeError(closable io.Closer, err error) error {
	return MergeError(err, closable.Close())
}

// MergeError merges newErr into err. If either error is nil the other is
// returned unchanged, so the result is nil only when both are nil.
func MergeError(err error, newErr error) error {
	if err == nil {
		return newErr
	}
	if newErr == nil {
		return err
	}
	return multierror.Append(err, newErr).ErrorOrNil()
}
