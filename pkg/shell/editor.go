package shell

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// This type is the interface that the line editor has to satisfy.
type editor interface {
	ReadLine(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// Line editor used when stdin is a terminal.
type linerEditor struct {
	*liner.State
}

// Creates a line editor on the process's terminal. Tab completes with the
// names returned by names.
func newLinerEditor(names func() []string) *linerEditor {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	st.SetCompleter(func(line string) []string {
		return completeLine(line, names())
	})
	return &linerEditor{st}
}

func (ed *linerEditor) ReadLine(prompt string) (string, error) {
	line, err := ed.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		// Ctrl-C discards the current line.
		return "", nil
	}
	return line, err
}

// Line editor used when stdin is not a terminal.
type minEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func newMinEditor(in, out *os.File) *minEditor {
	return &minEditor{bufio.NewReader(in), out}
}

func (ed *minEditor) ReadLine(prompt string) (string, error) {
	io.WriteString(ed.out, prompt)
	line, err := ed.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

func (*minEditor) AppendHistory(string) {}

func (*minEditor) Close() error { return nil }

// Returns completions of the identifier at the end of line, drawn from names
// and the keywords.
func completeLine(line string, names []string) []string {
	start := len(line)
	for start > 0 && isNameByte(line[start-1]) {
		start--
	}
	prefix := line[start:]
	var candidates []string
	for _, name := range append(names, "let", "in") {
		if strings.HasPrefix(name, prefix) && name != prefix {
			candidates = append(candidates, line[:start]+name)
		}
	}
	return candidates
}

func isNameByte(b byte) bool {
	return b == '_' || b == '\'' ||
		'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}
