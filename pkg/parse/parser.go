package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"src.lamb.sh/pkg/ast"
	"src.lamb.sh/pkg/diag"
)

// parser maintains the mutable states of parsing. Parsing stops at the first
// error.
//
// NOTE: The source code is assumed to be valid UTF-8.
type parser struct {
	srcName string
	src     string
	pos     int
	err     *Error
}

func newParser(src Source) *parser {
	return &parser{srcName: src.Name, src: src.Code}
}

// Panicked by (*parser).errorp to abort parsing; recovered by run.
type parseAbort struct{}

// Runs f, recovering from the abort of parsing when an error is found.
func (ps *parser) run(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); !ok {
				panic(r)
			}
			err = ps.err
		}
	}()
	f()
	return nil
}

// Errors.
var (
	errShouldBeDefName    = newError("", "definition name")
	errShouldBeParamName  = newError("", "parameter name")
	errShouldBeLetName    = newError("", "variable name")
	errShouldBeEqual      = newError("", "'='")
	errShouldBeArrow      = newError("", "'=>'")
	errShouldBeIn         = newError("", "'in'")
	errShouldBeExpr       = newError("", "integer", "variable name", "'('", "'#'", "'let'")
	errShouldBeRParen     = newError("", "')'")
	errIntOutOfRange      = newError("integer literal out of range")
	errKeywordAsName      = newError("keyword cannot be used as a name")
	errShouldBeDefOrEnd   = newError("", "definition", "';'", "end of input")
	errShouldBeEndOfInput = newError("", "end of input")
)

const eof rune = -1

var keywords = map[string]bool{"let": true, "in": true}

func (ps *parser) program() *ast.Load {
	load := &ast.Load{Ranging: diag.Ranging{From: 0, To: len(ps.src)}}
	ps.skipSpace()
	for ps.peek() != eof {
		if !isIdentStart(ps.peek()) {
			ps.error(errShouldBeDefOrEnd)
		}
		load.Items = append(load.Items, ps.def())
		ps.skipSpace()
		if ps.peek() == ';' {
			ps.next()
			ps.skipSpace()
		}
	}
	return load
}

// Reports whether the parser is at the start of a definition, without
// consuming anything.
func (ps *parser) startsDef() bool {
	saved := ps.pos
	defer func() { ps.pos = saved }()
	ps.skipSpace()
	if !isIdentStart(ps.peek()) {
		return false
	}
	ps.ident()
	ps.skipSpace()
	return ps.hasPrefix("=") && !ps.hasPrefix("=>")
}

func (ps *parser) def() *ast.Def {
	ps.skipSpace()
	begin := ps.pos
	name := ps.name(errShouldBeDefName)
	nameRanging := diag.Ranging{From: begin, To: ps.pos}
	ps.skipSpace()
	ps.expectEqual()
	e := ps.expr()
	return &ast.Def{
		Ranging: diag.Ranging{From: begin, To: e.Range().To},
		Name:    name, NameRanging: nameRanging, Expr: e}
}

func (ps *parser) expr() ast.Expr {
	ps.skipSpace()
	switch {
	case ps.peek() == '#':
		return ps.lambda()
	case ps.hasKeyword("let"):
		return ps.let()
	default:
		return ps.sum()
	}
}

func (ps *parser) lambda() ast.Expr {
	begin := ps.pos
	ps.next() // '#'
	ps.skipSpace()
	param := ps.name(errShouldBeParamName)
	ps.skipSpace()
	if !ps.hasPrefix("=>") {
		ps.error(errShouldBeArrow)
	}
	ps.pos += len("=>")
	body := ps.expr()
	return &ast.Lam{
		Ranging: diag.Ranging{From: begin, To: body.Range().To},
		Param:   param, Body: body}
}

func (ps *parser) let() ast.Expr {
	begin := ps.pos
	ps.pos += len("let")
	ps.skipSpace()
	name := ps.name(errShouldBeLetName)
	ps.skipSpace()
	ps.expectEqual()
	value := ps.expr()
	ps.skipSpace()
	if !ps.hasKeyword("in") {
		ps.error(errShouldBeIn)
	}
	ps.pos += len("in")
	body := ps.expr()
	return &ast.Let{
		Ranging: diag.Ranging{From: begin, To: body.Range().To},
		Name:    name, Value: value, Body: body}
}

func (ps *parser) sum() ast.Expr {
	e := ps.call()
	for {
		ps.skipSpace()
		if ps.peek() != '+' {
			return e
		}
		ps.next()
		ps.skipSpace()
		var right ast.Expr
		if ps.peek() == '#' || ps.hasKeyword("let") {
			right = ps.expr()
		} else {
			right = ps.call()
		}
		e = &ast.Add{Ranging: diag.MixedRanging(e, right), Left: e, Right: right}
	}
}

func (ps *parser) call() ast.Expr {
	e := ps.atom()
	for {
		ps.skipSpace()
		if ps.peek() != '(' {
			return e
		}
		ps.next()
		arg := ps.expr()
		ps.skipSpace()
		if ps.peek() != ')' {
			ps.error(errShouldBeRParen)
		}
		ps.next()
		e = &ast.App{
			Ranging: diag.Ranging{From: e.Range().From, To: ps.pos},
			Fn:      e, Arg: arg}
	}
}

func (ps *parser) atom() ast.Expr {
	ps.skipSpace()
	begin := ps.pos
	r := ps.peek()
	switch {
	case isDigit(r) || (r == '-' && isDigit(ps.peekAt(1))):
		ps.next()
		for isDigit(ps.peek()) {
			ps.next()
		}
		ranging := diag.Ranging{From: begin, To: ps.pos}
		n, err := strconv.ParseInt(ps.src[begin:ps.pos], 10, 32)
		if err != nil {
			ps.errorp(ranging, errIntOutOfRange)
		}
		return &ast.Int{Ranging: ranging, Value: int32(n)}
	case isIdentStart(r):
		name := ps.name(errShouldBeExpr)
		return &ast.Var{Ranging: diag.Ranging{From: begin, To: ps.pos}, Name: name}
	case r == '(':
		ps.next()
		e := ps.expr()
		ps.skipSpace()
		if ps.peek() != ')' {
			ps.error(errShouldBeRParen)
		}
		ps.next()
		return e
	default:
		ps.error(errShouldBeExpr)
		return nil
	}
}

// Parses an identifier that is not a keyword.
func (ps *parser) name(errIfMissing error) string {
	if !isIdentStart(ps.peek()) {
		ps.error(errIfMissing)
	}
	begin := ps.pos
	name := ps.ident()
	if keywords[name] {
		ps.errorp(diag.Ranging{From: begin, To: ps.pos}, errKeywordAsName)
	}
	return name
}

func (ps *parser) ident() string {
	begin := ps.pos
	for isIdentRune(ps.peek()) {
		ps.next()
	}
	return ps.src[begin:ps.pos]
}

func (ps *parser) expectEqual() {
	if !ps.hasPrefix("=") || ps.hasPrefix("=>") {
		ps.error(errShouldBeEqual)
	}
	ps.next()
}

// Reports whether the parser is at the given keyword, not followed by any
// character that could continue an identifier.
func (ps *parser) hasKeyword(kw string) bool {
	if !ps.hasPrefix(kw) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(ps.src[ps.pos+len(kw):])
	return ps.pos+len(kw) == len(ps.src) || !isIdentRune(r)
}

// Skips whitespace and comments.
func (ps *parser) skipSpace() {
	for {
		r := ps.peek()
		switch {
		case r != eof && unicode.IsSpace(r):
			ps.next()
		case ps.hasPrefix("//"):
			i := strings.IndexByte(ps.src[ps.pos:], '\n')
			if i == -1 {
				ps.pos = len(ps.src)
			} else {
				ps.pos += i + 1
			}
		default:
			return
		}
	}
}

// Tells the parser that parsing is done.
func (ps *parser) done() {
	ps.skipSpace()
	if ps.pos != len(ps.src) {
		ps.error(errShouldBeEndOfInput)
	}
}

func (ps *parser) peek() rune {
	if ps.pos == len(ps.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(ps.src[ps.pos:])
	return r
}

// Returns the rune i runes after the current one.
func (ps *parser) peekAt(i int) rune {
	pos := ps.pos
	for ; i > 0 && pos < len(ps.src); i-- {
		_, s := utf8.DecodeRuneInString(ps.src[pos:])
		pos += s
	}
	if pos == len(ps.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(ps.src[pos:])
	return r
}

func (ps *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(ps.src[ps.pos:], prefix)
}

func (ps *parser) next() rune {
	if ps.pos == len(ps.src) {
		return eof
	}
	r, s := utf8.DecodeRuneInString(ps.src[ps.pos:])
	ps.pos += s
	return r
}

func (ps *parser) errorp(r diag.Ranger, e error) {
	ps.err = &Error{
		Message: e.Error(),
		Context: *diag.NewContext(ps.srcName, ps.src, r),
		Partial: r.Range().From == len(ps.src),
	}
	panic(parseAbort{})
}

// Records an error at the current rune, and aborts parsing.
func (ps *parser) error(e error) {
	end := ps.pos
	if end < len(ps.src) {
		_, s := utf8.DecodeRuneInString(ps.src[end:])
		end += s
	}
	if ps.pos < len(ps.src) {
		r, _ := utf8.DecodeRuneInString(ps.src[ps.pos:])
		e = fmt.Errorf("unexpected %q, %w", r, e)
	} else {
		e = fmt.Errorf("unexpected end of input, %w", e)
	}
	ps.errorp(diag.Ranging{From: ps.pos, To: end}, e)
}

func newError(text string, shouldbe ...string) error {
	if len(shouldbe) == 0 {
		return errors.New(text)
	}
	var sb strings.Builder
	if len(text) > 0 {
		sb.WriteString(text + ", ")
	}
	sb.WriteString("should be " + shouldbe[0])
	for i, opt := range shouldbe[1:] {
		if i == len(shouldbe)-2 {
			sb.WriteString(" or ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(opt)
	}
	return errors.New(sb.String())
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentRune(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '\''
}
