package shell

import (
	"path/filepath"
	"testing"

	"src.lamb.sh/pkg/env"
	"src.lamb.sh/pkg/must"
	. "src.lamb.sh/pkg/prog/progtest"
	"src.lamb.sh/pkg/testutil"
)

// Points the config and state directories to a temporary directory, so that
// tests don't pick up the rc file of the user.
func setupCleanHomePaths(t *testing.T) string {
	home := testutil.TempDir(t)
	testutil.Setenv(t, env.HOME, home)
	testutil.Setenv(t, env.XDG_CONFIG_HOME, filepath.Join(home, ".config"))
	testutil.Setenv(t, env.XDG_STATE_HOME, filepath.Join(home, ".local", "state"))
	return home
}

func TestProgram_RC(t *testing.T) {
	home := setupCleanHomePaths(t)
	testutil.InTempDir(t)
	must.MkdirAll(filepath.Join(home, ".config", "lamb"))
	must.WriteFile(filepath.Join(home, ".config", "lamb", "rc.toml"), "output = 'json'\n")
	must.WriteFile("depth.toml", "max-depth = 3\n")
	must.WriteFile("unknown.toml", "max-depth = 100\nfoo = 1\n")
	must.WriteFile("bad.toml", "max-depth = \n")

	Test(t, &Program{},
		// Default rc file.
		ThatLamb("-c", "main = 5").WritesStdout(`{"kind":"integer","value":5}`+"\n"),
		// Flags override the rc file.
		ThatLamb("-output", "text", "-c", "main = 5").WritesStdout("5\n"),
		ThatLamb("-norc", "-c", "main = 5").WritesStdout("5\n"),

		// Explicit rc file replaces the default one.
		ThatLamb("-rc", "depth.toml", "-c", "main = 1 + 2 + 3 + 4").
			ExitsWith(2).
			WritesStderrContaining("recursion limit exceeded: 3"),
		ThatLamb("-rc", "depth.toml", "-max-depth", "10", "-c", "main = 1 + 2 + 3 + 4").
			WritesStdout("10\n"),

		ThatLamb("-rc", "unknown.toml", "-c", "main = 1").
			WritesStdout("1\n").
			WritesStderrContaining("Warning: unknown keys in unknown.toml: foo"),
		ThatLamb("-rc", "bad.toml", "-c", "main = 1").
			WritesStdout("1\n").
			WritesStderrContaining("Warning: cannot load rc file"),
		ThatLamb("-rc", "missing.toml", "-c", "main = 1").
			WritesStdout("1\n").
			WritesStderrContaining("Warning: cannot load rc file"),
	)
}

func TestProgram_BadUsage(t *testing.T) {
	setupCleanHomePaths(t)

	Test(t, &Program{},
		ThatLamb("-output", "xml", "-c", "main = 1").
			ExitsWith(2).
			WritesStderrContaining(`unknown output format "xml"`),
		ThatLamb("run").
			ExitsWith(2).
			WritesStderrContaining("run requires a file argument"),
		ThatLamb("a.lamb", "b.lamb").
			ExitsWith(2).
			WritesStderrContaining("too many arguments"),
		ThatLamb("-c").
			ExitsWith(2).
			WritesStderrContaining("-c requires code as an argument"),
	)
}

func TestLoadConfig(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("rc.toml", "max-depth = 5\noutput = 'yaml'\nhistory = false\ndb = '/tmp/x.bolt'\n")

	cfg, unknown, err := LoadConfig("rc.toml")
	if err != nil {
		t.Fatal(err)
	}
	if len(unknown) != 0 {
		t.Errorf("got unknown keys %v", unknown)
	}
	if cfg.MaxDepth != 5 || cfg.Output != "yaml" || cfg.history() || cfg.DB != "/tmp/x.bolt" {
		t.Errorf("got config %+v", cfg)
	}
	if !(&Config{}).history() {
		t.Errorf("history is disabled by default")
	}
}
