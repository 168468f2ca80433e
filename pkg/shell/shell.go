// Package shell is the entry point for running lamb programs, either from a
// file, from the command line, from stdin, or interactively.
package shell

import (
	"fmt"
	"os"

	"src.lamb.sh/pkg/eval"
	"src.lamb.sh/pkg/logutil"
	"src.lamb.sh/pkg/prog"
	"src.lamb.sh/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram. It always runs, so it should be the last
// subprogram of a composite.
type Program struct {
	codeInArg   bool
	compileOnly bool
	noRC        bool
	rc          string
	db          string
	output      string
	maxDepth    int
	json        *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false, "take first argument as code to execute")
	fs.BoolVar(&p.compileOnly, "compileonly", false, "parse but do not evaluate")
	fs.BoolVar(&p.noRC, "norc", false, "don't read rc.toml")
	fs.StringVar(&p.rc, "rc", "", "path to rc.toml")
	fs.StringVar(&p.db, "db", "", "path to the history database")
	fs.StringVar(&p.output, "output", "", "format of the result: text, json or yaml")
	fs.IntVar(&p.maxDepth, "max-depth", 0,
		fmt.Sprintf("maximum nesting depth of evaluation (default %d)", eval.DefaultMaxDepth))
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	cfg, err := p.config(fds[2])
	if err != nil {
		return err
	}
	ev := &eval.Evaler{MaxDepth: cfg.MaxDepth}

	if len(args) > 0 && !p.codeInArg && args[0] == "run" {
		args = args[1:]
		if len(args) == 0 {
			return prog.BadUsage("run requires a file argument")
		}
	}
	if len(args) > 1 {
		return prog.BadUsage("too many arguments")
	}

	scfg := &scriptCfg{
		Cmd: p.codeInArg, CompileOnly: p.compileOnly, JSON: *p.json,
		Output: cfg.Output}
	if len(args) == 1 {
		return prog.Exit(script(fds, ev, args[0], scfg))
	}
	if p.codeInArg {
		return prog.BadUsage("-c requires code as an argument")
	}
	if !sys.IsATTY(fds[0]) {
		return prog.Exit(scriptStdin(fds, ev, scfg))
	}

	icfg := &interactConfig{Evaler: ev, Output: cfg.Output}
	if cfg.history() {
		icfg.DB = cfg.DB
		if icfg.DB == "" {
			icfg.DB, err = dbPath()
			if err != nil {
				fmt.Fprintln(fds[2], "Warning:", err)
				fmt.Fprintln(fds[2], "History will not be saved.")
			}
		}
	}
	interact(fds, icfg)
	return nil
}
