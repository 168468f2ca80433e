// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"reflect"
	"testing"

	"src.lamb.sh/pkg/store/storedefs"
)

var cmds = []string{"id = #x => x", "id(5)", "let x = 1 in x", "two(succ)(0)"}

// TestCmd tests the input history functionality of a Store.
func TestCmd(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() => (%v, %v), want (1, nil)",
			startSeq, err)
	}

	// AddCmd
	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := store.AddCmd(cmd)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddCmd(%v) => (%v, %v), want (%v, nil)",
				cmd, seq, err, wantSeq)
		}
	}

	endSeq, err := store.NextCmdSeq()
	wantedEndSeq := startSeq + len(cmds)
	if endSeq != wantedEndSeq || err != nil {
		t.Errorf("store.NextCmdSeq() => (%v, %v), want (%v, nil)",
			endSeq, err, wantedEndSeq)
	}

	// CmdsWithSeq
	wantCmdWithSeqs := make([]storedefs.Cmd, len(cmds))
	for i, cmd := range cmds {
		wantCmdWithSeqs[i] = storedefs.Cmd{Text: cmd, Seq: i + 1}
	}
	for i := 0; i < 4; i++ {
		for j := i; j < 4; j++ {
			cmds, err := store.CmdsWithSeq(i+1, j+1)
			wantCmds := wantCmdWithSeqs[i:j]
			if len(wantCmds) == 0 {
				wantCmds = nil
			}
			if !reflect.DeepEqual(cmds, wantCmds) || err != nil {
				t.Errorf("store.CmdsWithSeq(%v, %v) -> (%v, %v), want (%v, nil)",
					i+1, j+1, cmds, err, wantCmds)
			}
		}
	}

	// Cmd
	for i, wantCmd := range cmds {
		cmd, err := store.Cmd(i + 1)
		if cmd != wantCmd || err != nil {
			t.Errorf("store.Cmd(%v) => (%v, %v), want (%v, nil)",
				i+1, cmd, err, wantCmd)
		}
	}
	if _, err := store.Cmd(len(cmds) + 1); !matchErr(err, storedefs.ErrNoMatchingCmd) {
		t.Errorf("store.Cmd(%v) => error %v, want %v",
			len(cmds)+1, err, storedefs.ErrNoMatchingCmd)
	}

	// DelCmd
	if err := store.DelCmd(1); err != nil {
		t.Error("Failed to remove cmd")
	}
	if seq, err := store.Cmd(1); !matchErr(err, storedefs.ErrNoMatchingCmd) {
		t.Errorf("Cmd(1) => (%v, %v), want (%v, %v)",
			seq, err, "", storedefs.ErrNoMatchingCmd)
	}
	if next, _ := store.NextCmdSeq(); next != wantedEndSeq {
		t.Errorf("NextCmdSeq changed to %v after DelCmd, want %v", next, wantedEndSeq)
	}
}

func matchErr(e1, e2 error) bool {
	return (e1 == nil && e2 == nil) || (e1 != nil && e2 != nil && e1.Error() == e2.Error())
}
