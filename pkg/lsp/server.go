package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.lamb.sh/pkg/ast"
	"src.lamb.sh/pkg/diag"
	"src.lamb.sh/pkg/eval"
	"src.lamb.sh/pkg/parse"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

var keywords = []string{"let", "in"}

type server struct {
	evaler  *eval.Evaler
	content map[lsp.DocumentURI]string
	// Names defined by the last version of each document that parsed
	// successfully. Used for completion while the document is being edited.
	names map[lsp.DocumentURI][]string
}

func newServer() *server {
	return &server{eval.NewEvaler(),
		make(map[lsp.DocumentURI]string), make(map[lsp.DocumentURI][]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		// Required by the protocol.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		logger.Println("request:", req.Method)
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:      true,
			CompletionProvider: &lsp.CompletionOptions{},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.update(ctx, conn, params.TextDocument.URI, params.TextDocument.Text)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}
	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	s.update(ctx, conn, params.TextDocument.URI, params.ContentChanges[0].Text)
	return nil, nil
}

func (s *server) didClose(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	uri := params.TextDocument.URI
	delete(s.content, uri)
	delete(s.names, uri)
	// Clear the diagnostics of the closed document.
	go conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: []lsp.Diagnostic{}})
	return nil, nil
}

func (s *server) update(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	s.content[uri] = content
	tree, err := parse.Parse(parse.Source{Name: string(uri), Code: content})
	if err == nil {
		s.names[uri] = defNames(tree.Root)
	}
	go publishDiagnostics(ctx, conn, uri, content, s.evaler)
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content := s.content[params.TextDocument.URI]
	tree, err := parse.Parse(parse.Source{Name: string(params.TextDocument.URI), Code: content})
	if err != nil {
		return lsp.Hover{}, nil
	}
	idx := lspPositionToIdx(content, params.Position)
	for i, item := range tree.Root.Items {
		def, ok := item.(*ast.Def)
		if !ok || idx < def.NameRanging.From || idx > def.NameRanging.To {
			continue
		}
		// Only the definitions up to this one are in scope.
		upto := &ast.Load{Ranging: tree.Root.Ranging, Items: tree.Root.Items[:i+1]}
		var text string
		env, err := s.evaler.Load(upto, eval.EmptyEnv())
		if err == nil {
			v, _ := env.Lookup(def.Name)
			text = def.Name + " = " + eval.Display(v)
		} else {
			text = def.Name + ": " + err.Error()
		}
		r := lspRangeFromRange(content, def.NameRanging)
		return lsp.Hover{
			Contents: []lsp.MarkedString{{Language: "lamb", Value: text}},
			Range:    &r,
		}, nil
	}
	return lsp.Hover{}, nil
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri := params.TextDocument.URI
	content := s.content[uri]
	dot := lspPositionToIdx(content, params.Position)
	start := dot
	for start > 0 && isNameByte(content[start-1]) {
		start--
	}
	prefix := content[start:dot]
	replace := lspRangeFromRange(content, diag.Ranging{From: start, To: dot})

	items := []lsp.CompletionItem{}
	add := func(name string, kind lsp.CompletionItemKind) {
		if strings.HasPrefix(name, prefix) {
			items = append(items, lsp.CompletionItem{
				Label:    name,
				Kind:     kind,
				TextEdit: &lsp.TextEdit{Range: replace, NewText: name},
			})
		}
	}
	for _, name := range s.names[uri] {
		add(name, lsp.CIKVariable)
	}
	for _, kw := range keywords {
		add(kw, lsp.CIKKeyword)
	}
	return items, nil
}

// Returns the distinct names defined in a program, sorted.
func defNames(root *ast.Load) []string {
	seen := make(map[string]bool)
	var names []string
	for _, def := range root.Defs() {
		if !seen[def.Name] {
			seen[def.Name] = true
			names = append(names, def.Name)
		}
	}
	sort.Strings(names)
	return names
}

func isNameByte(b byte) bool {
	return b == '_' || b == '\'' ||
		'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string, ev *eval.Evaler) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(uri, content, ev)})
}

func diagnostics(uri lsp.DocumentURI, content string, ev *eval.Evaler) []lsp.Diagnostic {
	tree, err := parse.Parse(parse.Source{Name: string(uri), Code: content})
	if err != nil {
		entries := parse.UnpackErrors(err)
		diags := make([]lsp.Diagnostic, len(entries))
		for i, err := range entries {
			diags[i] = lsp.Diagnostic{
				Range:    lspRangeFromRange(content, err),
				Severity: lsp.Error,
				Source:   "parse",
				Message:  err.Message,
			}
		}
		return diags
	}

	_, err = ev.Load(tree.Root, eval.EmptyEnv())
	var exc *eval.Exception
	if errors.As(err, &exc) {
		return []lsp.Diagnostic{{
			Range:    lspRangeFromRange(content, exc),
			Severity: lsp.Error,
			Source:   "eval",
			Message:  exc.Reason.Error(),
		}}
	}
	return []lsp.Diagnostic{}
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
