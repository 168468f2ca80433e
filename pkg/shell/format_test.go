package shell

import (
	"testing"

	"src.lamb.sh/pkg/ast"
	"src.lamb.sh/pkg/eval"
	"src.lamb.sh/pkg/tt"
)

var closure = &eval.Closure{Param: "x", Body: &ast.Var{Name: "x"}}

func TestFormatValue(t *testing.T) {
	tt.Test(t, formatValue,
		tt.Args(eval.Int(5), "text").Rets("5\n", nil),
		tt.Args(eval.Int(-5), "").Rets("-5\n", nil),
		tt.Args(closure, "text").Rets("(function)\n", nil),
		tt.Args(eval.Int(5), "json").Rets(`{"kind":"integer","value":5}`+"\n", nil),
		tt.Args(closure, "json").Rets(`{"kind":"closure"}`+"\n", nil),
		tt.Args(eval.Int(5), "yaml").Rets("kind: integer\nvalue: 5\n", nil),
		tt.Args(closure, "yaml").Rets("kind: closure\n", nil),
		tt.Args(eval.Int(5), "xml").Rets("", tt.AnyError),
	)
}
