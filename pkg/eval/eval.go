// Package eval evaluates lamb programs.
//
// Evaluation is by environment passing: a lambda expression evaluates to a
// *Closure capturing the current [Env], and applying a closure evaluates its
// body in the captured environment extended with the argument. Arguments are
// evaluated before the callee is entered (call by value).
package eval

import (
	"fmt"

	"src.lamb.sh/pkg/ast"
	"src.lamb.sh/pkg/diag"
	"src.lamb.sh/pkg/eval/errs"
	"src.lamb.sh/pkg/logutil"
	"src.lamb.sh/pkg/parse"
)

var logger = logutil.GetLogger("[eval] ")

// DefaultMaxDepth is the default value of Evaler.MaxDepth.
const DefaultMaxDepth = 10000

// MainName is the name of the definition whose value is the result of a
// program.
const MainName = "main"

// Evaler evaluates expressions and programs. It only holds configuration, so
// an Evaler may be used concurrently.
type Evaler struct {
	// Maximum nesting depth of evaluation. Exceeding it fails with
	// errs.RecursionLimitExceeded. A non-positive value means
	// DefaultMaxDepth.
	MaxDepth int
}

// NewEvaler creates a new Evaler with the default configuration.
func NewEvaler() *Evaler {
	return &Evaler{MaxDepth: DefaultMaxDepth}
}

// Eval evaluates an expression with the default configuration.
func Eval(e ast.Expr, env Env) (Value, error) {
	return NewEvaler().Eval(e, env)
}

// EvalTopLevel evaluates a program with the default configuration.
func EvalTopLevel(top ast.TopLevel, env Env) (Value, error) {
	return NewEvaler().EvalTopLevel(top, env)
}

// Eval evaluates an expression in the given environment. Errors are always
// of type *Exception.
func (ev *Evaler) Eval(e ast.Expr, env Env) (Value, error) {
	return ev.newFrame().eval(e, env)
}

// Define evaluates a definition in env, and returns env extended with the
// defined name. The definition cannot refer to its own name unless env
// already binds it.
func (ev *Evaler) Define(def *ast.Def, env Env) (Env, error) {
	v, err := ev.newFrame().eval(def.Expr, env)
	if err != nil {
		return env, err
	}
	logger.Printf("defined %s as %s", def.Name, Describe(v))
	return env.Extend(def.Name, v), nil
}

// Load evaluates all definitions of a program in order, each in the
// environment built up by env and the definitions before it. It returns the
// final environment. The program must be an *ast.Load containing only
// *ast.Def items; otherwise it fails with errs.UnsupportedTopLevelItem.
func (ev *Evaler) Load(top ast.TopLevel, env Env) (Env, error) {
	load, ok := top.(*ast.Load)
	if !ok {
		return env, newException(
			errs.UnsupportedTopLevelItem{What: topLevelKind(top)}, rangeOf(top))
	}
	for _, item := range load.Items {
		def, ok := item.(*ast.Def)
		if !ok {
			return env, newException(
				errs.UnsupportedTopLevelItem{What: topLevelKind(item)}, rangeOf(item))
		}
		var err error
		env, err = ev.Define(def, env)
		if err != nil {
			return env, err
		}
	}
	return env, nil
}

// EvalTopLevel evaluates a program like Load, and returns the value of main
// in the final environment. It fails with errs.MainNotFound if main is not
// defined.
func (ev *Evaler) EvalTopLevel(top ast.TopLevel, env Env) (Value, error) {
	env, err := ev.Load(top, env)
	if err != nil {
		return nil, err
	}
	v, err := env.Lookup(MainName)
	if err != nil {
		return nil, newException(errs.MainNotFound{}, diag.PointRanging(top.Range().To))
	}
	return v, nil
}

// EvalTree evaluates a parsed program in an empty environment. Exceptions
// returned carry the source context.
func (ev *Evaler) EvalTree(tree parse.Tree) (Value, error) {
	v, err := ev.EvalTopLevel(tree.Root, EmptyEnv())
	return v, WithSource(err, tree.Source)
}

func (ev *Evaler) newFrame() *frame {
	limit := ev.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	return &frame{limit: limit}
}

// State of one evaluation.
type frame struct {
	limit int
	depth int
}

func (fm *frame) eval(e ast.Expr, env Env) (Value, error) {
	fm.depth++
	defer func() { fm.depth-- }()
	if fm.depth > fm.limit {
		logger.Printf("recursion limit %d exceeded", fm.limit)
		return nil, newException(errs.RecursionLimitExceeded{Limit: fm.limit}, e)
	}

	switch e := e.(type) {
	case *ast.Int:
		return Int(e.Value), nil
	case *ast.Var:
		v, err := env.Lookup(e.Name)
		if err != nil {
			return nil, newException(err, e)
		}
		return v, nil
	case *ast.Lam:
		return &Closure{Env: env, Param: e.Param, Body: e.Body}, nil
	case *ast.App:
		arg, err := fm.eval(e.Arg, env)
		if err != nil {
			return nil, err
		}
		fn, err := fm.eval(e.Fn, env)
		if err != nil {
			return nil, err
		}
		closure, ok := fn.(*Closure)
		if !ok {
			return nil, newException(errs.NotAFunction{Actual: Describe(fn)}, e.Fn)
		}
		return fm.eval(closure.Body, closure.Env.Extend(closure.Param, arg))
	case *ast.Let:
		v, err := fm.eval(e.Value, env)
		if err != nil {
			return nil, err
		}
		return fm.eval(e.Body, env.Extend(e.Name, v))
	case *ast.Add:
		left, err := fm.evalInt(e.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := fm.evalInt(e.Right, env)
		if err != nil {
			return nil, err
		}
		return left + right, nil
	default:
		panic(fmt.Sprintf("unknown expression type %T", e))
	}
}

func (fm *frame) evalInt(e ast.Expr, env Env) (Int, error) {
	v, err := fm.eval(e, env)
	if err != nil {
		return 0, err
	}
	i, ok := v.(Int)
	if !ok {
		return 0, newException(errs.TypeMismatch{Expected: "integer", Actual: v.Kind()}, e)
	}
	return i, nil
}

func topLevelKind(t ast.TopLevel) string {
	switch t.(type) {
	case *ast.Load:
		return "load"
	case *ast.Def:
		return "def"
	case nil:
		return "nil"
	}
	return fmt.Sprintf("%T", t)
}

func rangeOf(t ast.TopLevel) diag.Ranger {
	if t == nil {
		return diag.Ranging{}
	}
	return t
}
