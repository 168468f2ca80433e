package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.lamb.sh/pkg/ast"
	"src.lamb.sh/pkg/diag"
)

func src(code string) Source { return Source{Name: "[test]", Code: code} }

var parseTests = []struct {
	name string
	code string
	want string
}{
	{"empty program", "", ""},
	{"integer", "main = 5", "main = 5"},
	{"negative integer", "main = -5 + 1", "main = -5 + 1"},
	{"int32 bounds", "a = -2147483648\nb = 2147483647", "a = -2147483648\nb = 2147483647"},
	{"lambda", "id = #x => x", "id = #x => x"},
	{"lambda without spaces", "id=#x=>x", "id = #x => x"},
	{"application", "main = id(5)", "main = id(5)"},
	{"curried application", "main = two(succ)(0)", "main = two(succ)(0)"},
	{"lambda body extends right", "succ = #x => x + 1", "succ = #x => x + 1"},
	{"nested lambdas", "two = #f => #x => f(f(x))", "two = #f => #x => f(f(x))"},
	{"addition is left-associative", "main = 1 + 2 + 3", "main = 1 + 2 + 3"},
	{"parenthesized right operand", "main = 1 + (2 + 3)", "main = 1 + (2 + 3)"},
	{"lambda as right operand", "main = 1 + #x => x + 1", "main = 1 + #x => x + 1"},
	{"applying a parenthesized lambda", "main = (#x => x)(1)", "main = (#x => x)(1)"},
	{"let", "main = let x = 1 in x + 1", "main = let x = 1 in x + 1"},
	{"nested let", "main = let x = 1 in let y = x in y",
		"main = let x = 1 in let y = x in y"},
	{"keyword prefix is an identifier", "main = letter + inner", "main = letter + inner"},
	{"primes and underscores", "f' = _x1", "f' = _x1"},
	{"multiple definitions", "id = #x => x\nmain = id(5)", "id = #x => x\nmain = id(5)"},
	{"semicolons", "a = 1; b = 2;", "a = 1\nb = 2"},
	{"comments", "// comment\nmain = 1 // trailing\n", "main = 1"},
	{"whitespace before call parenthesis", "main = f (1)", "main = f(1)"},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			tree, err := Parse(src(test.code))
			if err != nil {
				t.Fatalf("got error %v", err)
			}
			if got := tree.Root.String(); got != test.want {
				t.Errorf("got %q, want %q", got, test.want)
			}
			// The printed form parses back to the same program.
			again, err := Parse(src(test.want))
			if err != nil {
				t.Fatalf("reparsing %q: %v", test.want, err)
			}
			if got := again.Root.String(); got != test.want {
				t.Errorf("reparsed as %q, want %q", got, test.want)
			}
		})
	}
}

func TestParse_Ranges(t *testing.T) {
	//          0123456789012
	code := "main = id(5)"
	tree, err := Parse(src(code))
	if err != nil {
		t.Fatal(err)
	}
	want := &ast.Load{
		Ranging: diag.Ranging{From: 0, To: 12},
		Items: []ast.TopLevel{&ast.Def{
			Ranging:     diag.Ranging{From: 0, To: 12},
			Name:        "main",
			NameRanging: diag.Ranging{From: 0, To: 4},
			Expr: &ast.App{
				Ranging: diag.Ranging{From: 7, To: 12},
				Fn:      &ast.Var{Ranging: diag.Ranging{From: 7, To: 9}, Name: "id"},
				Arg:     &ast.Int{Ranging: diag.Ranging{From: 10, To: 11}, Value: 5},
			},
		}},
	}
	if diff := cmp.Diff(want, tree.Root); diff != "" {
		t.Errorf("AST (-want +got):\n%s", diff)
	}
	if tree.Source != src(code) {
		t.Errorf("got source %v, want %v", tree.Source, src(code))
	}
}

var parseErrorTests = []struct {
	name        string
	code        string
	wantMessage string
	wantRange   diag.Ranging
	wantPartial bool
}{
	{
		name:        "missing expression",
		code:        "main = )",
		wantMessage: "unexpected ')', should be integer, variable name, '(', '#' or 'let'",
		wantRange:   diag.Ranging{From: 7, To: 8},
	},
	{
		name:        "expression cut short",
		code:        "main = ",
		wantMessage: "unexpected end of input, should be integer, variable name, '(', '#' or 'let'",
		wantRange:   diag.Ranging{From: 7, To: 7},
		wantPartial: true,
	},
	{
		name:        "integer out of range",
		code:        "main = 99999999999",
		wantMessage: "integer literal out of range",
		wantRange:   diag.Ranging{From: 7, To: 18},
	},
	{
		name:        "keyword as definition name",
		code:        "let = 1",
		wantMessage: "keyword cannot be used as a name",
		wantRange:   diag.Ranging{From: 0, To: 3},
	},
	{
		name:        "keyword as variable",
		code:        "main = in",
		wantMessage: "keyword cannot be used as a name",
		wantRange:   diag.Ranging{From: 7, To: 9},
	},
	{
		name:        "lambda without arrow",
		code:        "main = #x x",
		wantMessage: "unexpected 'x', should be '=>'",
		wantRange:   diag.Ranging{From: 10, To: 11},
	},
	{
		name:        "let without in",
		code:        "main = let x = 1 x",
		wantMessage: "unexpected 'x', should be 'in'",
		wantRange:   diag.Ranging{From: 17, To: 18},
	},
	{
		name:        "unclosed call",
		code:        "main = f(1",
		wantMessage: "unexpected end of input, should be ')'",
		wantRange:   diag.Ranging{From: 10, To: 10},
		wantPartial: true,
	},
	{
		name:        "garbage after definition",
		code:        "main = 1 )",
		wantMessage: "unexpected ')', should be definition, ';' or end of input",
		wantRange:   diag.Ranging{From: 9, To: 10},
	},
	{
		name:        "definition without equal sign",
		code:        "main 1",
		wantMessage: "unexpected '1', should be '='",
		wantRange:   diag.Ranging{From: 5, To: 6},
	},
}

func TestParse_Errors(t *testing.T) {
	for _, test := range parseErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(src(test.code))
			errs := UnpackErrors(err)
			if len(errs) != 1 {
				t.Fatalf("got errors %v, want exactly one parse error", err)
			}
			e := errs[0]
			if e.Message != test.wantMessage {
				t.Errorf("got message %q, want %q", e.Message, test.wantMessage)
			}
			if e.Range() != test.wantRange {
				t.Errorf("got range %v, want %v", e.Range(), test.wantRange)
			}
			if e.Partial != test.wantPartial {
				t.Errorf("got partial %v, want %v", e.Partial, test.wantPartial)
			}
			if e.Context.Name != "[test]" {
				t.Errorf("got context name %q", e.Context.Name)
			}
		})
	}
}

func TestParseExpr(t *testing.T) {
	e, err := ParseExpr(src("two(succ)(0)"))
	if err != nil {
		t.Fatal(err)
	}
	if got := e.String(); got != "two(succ)(0)" {
		t.Errorf("got %q", got)
	}

	_, err = ParseExpr(src("1 + 2 )"))
	errs := UnpackErrors(err)
	if len(errs) != 1 || errs[0].Message != "unexpected ')', should be end of input" {
		t.Errorf("got error %v", err)
	}
}

func TestParseInput(t *testing.T) {
	n, err := ParseInput(src("x = 1;"))
	if def, ok := n.(*ast.Def); err != nil || !ok || def.Name != "x" {
		t.Errorf("ParseInput(x = 1;) -> %v, %v, want definition of x", n, err)
	}

	n, err = ParseInput(src("x(1)"))
	if _, ok := n.(*ast.App); err != nil || !ok {
		t.Errorf("ParseInput(x(1)) -> %v, %v, want application", n, err)
	}

	n, err = ParseInput(src("  x  "))
	if v, ok := n.(*ast.Var); err != nil || !ok || v.Name != "x" {
		t.Errorf("ParseInput(x) -> %v, %v, want variable x", n, err)
	}

	_, err = ParseInput(src("f = #x =>"))
	if errs := UnpackErrors(err); len(errs) != 1 || !errs[0].Partial {
		t.Errorf("ParseInput of incomplete input -> %v, want partial error", err)
	}
}
