package prog_test

import (
	"os"
	"path/filepath"
	"testing"

	. "src.lamb.sh/pkg/prog"
	"src.lamb.sh/pkg/prog/progtest"
	"src.lamb.sh/pkg/testutil"
)

var (
	Test     = progtest.Test
	ThatLamb = progtest.ThatLamb
)

func TestCommonFlagHandling(t *testing.T) {
	dir := testutil.TempDir(t)

	Test(t, &testProgram{},
		ThatLamb("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatLamb("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatLamb("-help").
			WritesStdoutContaining("Usage: lamb [flags] [file]"),

		ThatLamb("-log", filepath.Join(dir, "log")).DoesNothing(),
		ThatLamb("-log", filepath.Join(dir, "no-such-dir", "log")).
			WritesStderrContaining("no such file or directory"),
	)

	if _, err := os.Stat(filepath.Join(dir, "log")); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestCustomFlag(t *testing.T) {
	Test(t, &testProgram{customFlag: true},
		ThatLamb("-flag", "foo").WritesStdout("-flag foo"),
	)
}

func TestSharedFlag(t *testing.T) {
	Test(t,
		Composite(
			&testProgram{sharedFlag: true, nextProgram: true},
			&testProgram{sharedFlag: true}),
		ThatLamb("-json").WritesStdout("-json true"),
	)
}

func TestNextProgram(t *testing.T) {
	Test(t, &testProgram{nextProgram: true},
		ThatLamb().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(&testProgram{nextProgram: true}, &testProgram{writeOut: "program 2"}),
		ThatLamb().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(&testProgram{nextProgram: true}, &testProgram{nextProgram: true}),
		ThatLamb().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			&testProgram{writeOut: "program 1"}, &testProgram{writeOut: "program 2"}),
		ThatLamb().WritesStdout("program 1"),
	)
}

func TestComposite_RunsCleanups(t *testing.T) {
	Test(t,
		Composite(
			cleanupProgram{"cleanup 1\n"}, cleanupProgram{"cleanup 2\n"},
			&testProgram{writeOut: "program 3\n"}),
		ThatLamb().WritesStdout("program 3\ncleanup 2\ncleanup 1\n"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		&testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatLamb().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, &testProgram{returnErr: Exit(3)},
		ThatLamb().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, &testProgram{returnErr: Exit(0)},
		ThatLamb().ExitsWith(0),
	)
}

type testProgram struct {
	nextProgram bool
	writeOut    string
	returnErr   error
	customFlag  bool
	sharedFlag  bool

	flag string
	json *bool
}

func (p *testProgram) RegisterFlags(f *FlagSet) {
	if p.customFlag {
		f.StringVar(&p.flag, "flag", "default", "a flag")
	}
	if p.sharedFlag {
		p.json = f.JSON()
	}
}

func (p *testProgram) Run(fds [3]*os.File, args []string) error {
	if p.nextProgram {
		return ErrNextProgram
	}
	fds[1].WriteString(p.writeOut)
	if p.customFlag {
		fds[1].WriteString("-flag " + p.flag)
	}
	if p.sharedFlag {
		if *p.json {
			fds[1].WriteString("-json true")
		} else {
			fds[1].WriteString("-json false")
		}
	}
	return p.returnErr
}

type cleanupProgram struct{ text string }

func (cleanupProgram) RegisterFlags(*FlagSet) {}

func (p cleanupProgram) Run([3]*os.File, []string) error {
	return NextProgram(func(fds [3]*os.File) { fds[1].WriteString(p.text) })
}
