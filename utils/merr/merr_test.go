package merr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/covenantnet/covenant-go/utils/merr"
)

type stubCloser struct {
	err error
}

func (c stubCloser) Close() error {
	return c.err
}

func TestMergeError(t *testing.T) {
	opErr := errors.New("operation failed")
	newErr := errors.New("cleanup failed")

	require.NoError(t, merr.MergeError(nil, nil))
	require.ErrorIs(t, merr.MergeError(opErr, nil), opErr)
	require.ErrorIs(t, merr.MergeError(nil, newErr), newErr)

	merged := merr.MergeError(opErr, newErr)
	require.ErrorIs(t, merged, opErr)
	require.ErrorIs(t, merged, newErr)
}

func TestCloseAndMergeError(t *testing.T) {
	opErr := errors.New("operation failed")
	closeErr := errors.New("close failed")

	require.NoError(t, merr.CloseAndMergeError(stubCloser{}, nil))
	require.ErrorIs(t, merr.CloseAndMergeError(stubCloser{err: closeErr}, nil), closeErr)

	merged := merr.CloseAndMergeError(stubCloser{err: closeErr}, opErr)
	require.ErrorIs(t, merged, opErr)
	require.ErrorIs(t, merged, closeErr)
}
