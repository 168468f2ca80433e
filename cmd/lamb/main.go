// Lamb evaluates programs in a small functional language with integers,
// addition, single-parameter lambdas and let bindings. It runs programs from
// files, from the command line or from stdin, and provides an interactive
// mode and a language server.
package main

import (
	"os"

	"src.lamb.sh/pkg/buildinfo"
	"src.lamb.sh/pkg/lsp"
	"src.lamb.sh/pkg/pprof"
	"src.lamb.sh/pkg/prog"
	"src.lamb.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&pprof.Program{}, &buildinfo.Program{}, &lsp.Program{},
			&shell.Program{})))
}
