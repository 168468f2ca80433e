package store

import (
	"path/filepath"

	"src.lamb.sh/pkg/testutil"
)

// MustTempStore returns a Store backed by a temporary file for the duration
// of a test. It panics if the Store cannot be created.
func MustTempStore(t interface {
	testutil.TempDirer
	testutil.Cleanuper
}) DBStore {
	st, err := NewStore(filepath.Join(testutil.TempDir(t), "db.bolt"))
	if err != nil {
		panic(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
