package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"src.lamb.sh/pkg/ast"
	"src.lamb.sh/pkg/diag"
	"src.lamb.sh/pkg/eval"
	"src.lamb.sh/pkg/parse"
	"src.lamb.sh/pkg/store"
	"src.lamb.sh/pkg/store/storedefs"
	"src.lamb.sh/pkg/sys"
)

const (
	prompt     = "lamb> "
	contPrompt = "...   "
)

// Configuration for the interactive mode.
type interactConfig struct {
	Evaler *eval.Evaler
	Output string
	// Path of the history database. History is not saved if empty.
	DB string
}

// Runs an interactive session. Each input is either a definition, which
// extends the session environment, a bare expression, whose value is printed,
// or a meta command starting with ":".
func interact(fds [3]*os.File, cfg *interactConfig) {
	logger.Println("interactive session started")
	defer logger.Println("interactive session ended")

	env := eval.EmptyEnv()
	var ed editor
	if sys.IsATTY(fds[0]) {
		ed = newLinerEditor(func() []string { return env.Names() })
	} else {
		ed = newMinEditor(fds[0], fds[2])
	}
	defer ed.Close()

	st := openHistory(fds[2], cfg.DB, ed)
	if st != nil {
		defer st.Close()
	}

	for cmdNum := 1; ; cmdNum++ {
		code, err := readInput(ed)
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(fds[2], "Editor error:", err)
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ed.AppendHistory(code)
		if st != nil {
			if _, err := st.AddCmd(code); err != nil {
				logger.Println("failed to add to history:", err)
			}
		}

		if strings.HasPrefix(trimmed, ":") {
			if metaCommand(fds, trimmed, env) {
				break
			}
			continue
		}
		src := parse.Source{Name: fmt.Sprintf("[tty %v]", cmdNum), Code: code}
		env = evalInput(fds, cfg, env, src)
	}
}

// Reads one input, asking for continuation lines while the input is
// incomplete.
func readInput(ed editor) (string, error) {
	var sb strings.Builder
	for {
		p := prompt
		if sb.Len() > 0 {
			p = contPrompt
		}
		line, err := ed.ReadLine(p)
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				// Let the caller report the incomplete input.
				return sb.String(), nil
			}
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)

		code := sb.String()
		if trimmed := strings.TrimSpace(code); trimmed == "" || trimmed[0] == ':' {
			return code, nil
		}
		_, err = parse.ParseInput(parse.Source{Code: code})
		if !incomplete(err) {
			return code, nil
		}
	}
}

// Reports whether err is a parse error that may be fixed by more input.
func incomplete(err error) bool {
	errs := parse.UnpackErrors(err)
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if !e.Partial {
			return false
		}
	}
	return true
}

// Evaluates one input and returns the new environment.
func evalInput(fds [3]*os.File, cfg *interactConfig, env eval.Env, src parse.Source) eval.Env {
	n, err := parse.ParseInput(src)
	if err != nil {
		diag.ShowError(fds[2], err)
		return env
	}
	switch n := n.(type) {
	case *ast.Def:
		newEnv, err := cfg.Evaler.Define(n, env)
		if err != nil {
			diag.ShowError(fds[2], eval.WithSource(err, src))
			return env
		}
		return newEnv
	case ast.Expr:
		v, err := cfg.Evaler.Eval(n, env)
		if err != nil {
			diag.ShowError(fds[2], eval.WithSource(err, src))
			return env
		}
		out, err := formatValue(v, cfg.Output)
		if err != nil {
			diag.ShowError(fds[2], err)
			return env
		}
		fds[1].WriteString(out)
	}
	return env
}

// Runs a meta command, and returns whether the session should end.
func metaCommand(fds [3]*os.File, cmd string, env eval.Env) bool {
	switch cmd {
	case ":quit":
		return true
	case ":env":
		for _, name := range env.Names() {
			v, _ := env.Lookup(name)
			fmt.Fprintf(fds[1], "%s = %s\n", name, eval.Display(v))
		}
	default:
		fmt.Fprintf(fds[2], "unknown command %s; supported commands are :env and :quit\n", cmd)
	}
	return false
}

// Opens the history database and loads its content into the editor. It
// returns nil if history is disabled or the database cannot be opened.
func openHistory(stderr io.Writer, dbPath string, ed editor) store.DBStore {
	if dbPath == "" {
		return nil
	}
	err := os.MkdirAll(filepath.Dir(dbPath), 0700)
	if err != nil {
		fmt.Fprintln(stderr, "Warning: cannot create directory for history:", err)
		return nil
	}
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintln(stderr, "Warning: cannot open history database:", err)
		return nil
	}
	next, err := st.NextCmdSeq()
	if err == nil {
		var cmds []storedefs.Cmd
		cmds, err = st.CmdsWithSeq(0, next)
		for _, cmd := range cmds {
			ed.AppendHistory(cmd.Text)
		}
	}
	if err != nil {
		logger.Println("failed to load history:", err)
	}
	return st
}
