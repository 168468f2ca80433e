package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.lamb.sh/pkg/diag"
	"src.lamb.sh/pkg/eval"
	"src.lamb.sh/pkg/parse"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd         bool
	CompileOnly bool
	JSON        bool
	Output      string
}

// Runs a program from a file, or from the argument if cfg.Cmd is true.
func script(fds [3]*os.File, ev *eval.Evaler, arg0 string, cfg *scriptCfg) int {
	var name, code string
	if cfg.Cmd {
		name = "code from -c"
		code = arg0
	} else {
		var err error
		name, err = filepath.Abs(arg0)
		if err != nil {
			fmt.Fprintf(fds[2],
				"cannot get full path of file %q: %v\n", arg0, err)
			return 2
		}
		code, err = readFileUTF8(name)
		if err != nil {
			fmt.Fprintf(fds[2], "cannot read file %q: %v\n", name, err)
			return 2
		}
	}
	return runSource(fds, ev, parse.Source{Name: name, Code: code, IsFile: !cfg.Cmd}, cfg)
}

// Runs a program read from stdin.
func scriptStdin(fds [3]*os.File, ev *eval.Evaler, cfg *scriptCfg) int {
	bytes, err := io.ReadAll(fds[0])
	if err == nil && !utf8.Valid(bytes) {
		err = errSourceNotUTF8
	}
	if err != nil {
		fmt.Fprintln(fds[2], "cannot read stdin:", err)
		return 2
	}
	return runSource(fds, ev, parse.Source{Name: "[stdin]", Code: string(bytes)}, cfg)
}

func runSource(fds [3]*os.File, ev *eval.Evaler, src parse.Source, cfg *scriptCfg) int {
	tree, parseErr := parse.Parse(src)
	if cfg.CompileOnly {
		if cfg.JSON {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(parseErr))
		} else if parseErr != nil {
			diag.ShowError(fds[2], parseErr)
		}
		if parseErr != nil {
			return 2
		}
		return 0
	}
	if parseErr != nil {
		diag.ShowError(fds[2], parseErr)
		return 2
	}

	v, err := ev.EvalTree(tree)
	if err != nil {
		logger.Printf("evaluating %s failed: %v", src.Name, err)
		diag.ShowError(fds[2], err)
		return 2
	}
	out, err := formatValue(v, cfg.Output)
	if err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}
	fds[1].WriteString(out)
	return 0
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// Converts parse errors into JSON. No errors are converted to an empty list.
func errorsToJSON(parseErr error) []byte {
	converted := []errorInJSON{}
	for _, e := range parse.UnpackErrors(parseErr) {
		converted = append(converted,
			errorInJSON{e.Context.Name, e.Context.From, e.Context.To, e.Message})
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
