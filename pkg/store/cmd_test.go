package store_test

import (
	"path/filepath"
	"testing"

	"src.lamb.sh/pkg/store"
	"src.lamb.sh/pkg/store/storetest"
	"src.lamb.sh/pkg/testutil"
)

func TestCmd(t *testing.T) {
	tStore := store.MustTempStore(t)
	storetest.TestCmd(t, tStore)
}

func TestNewStore_PersistsAcrossOpens(t *testing.T) {
	dbname := filepath.Join(testutil.TempDir(t), "db.bolt")

	st, err := store.NewStore(dbname)
	if err != nil {
		t.Fatal(err)
	}
	st.AddCmd("main = 1")
	st.Close()

	st, err = store.NewStore(dbname)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	cmd, err := st.Cmd(1)
	if cmd != "main = 1" || err != nil {
		t.Errorf("Cmd(1) => (%q, %v), want (%q, nil)", cmd, err, "main = 1")
	}
}

func TestNewStore_BadPath(t *testing.T) {
	_, err := store.NewStore(filepath.Join(testutil.TempDir(t), "no-such-dir", "db"))
	if err == nil {
		t.Errorf("NewStore with a bad path succeeded")
	}
}
