package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.mcfn.dev/pkg/diag"
	"src.mcfn.dev/pkg/highlight"
	"src.mcfn.dev/pkg/parse"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	cfg parse.Config
	// Guards docs. Each document is only parsed by the handler of the
	// message that changed it.
	mu   sync.Mutex
	docs map[lsp.DocumentURI]*document
}

type document struct {
	fp   *parse.FileParser
	tree *parse.FileTree
}

func newServer(cfg parse.Config) (*server, error) {
	// Reject bad schemas up front rather than on the first document.
	if _, err := parse.NewParser(cfg); err != nil {
		return nil, err
	}
	return &server{cfg: cfg, docs: make(map[lsp.DocumentURI]*document)}, nil
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/formatting": s.formatting,
		"textDocument/hover":      s.hover,

		"shutdown": noop,
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
			DocumentFormattingProvider: true,
			HoverProvider:              true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	return s.update(ctx, conn, params.TextDocument.URI, params.TextDocument.Text)
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}
	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	return s.update(ctx, conn, params.TextDocument.URI, params.ContentChanges[0].Text)
}

func (s *server) didClose(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	if d, ok := s.docs[uri]; ok {
		d.tree.Release()
		delete(s.docs, uri)
	}
	s.mu.Unlock()
	go publishDiagnostics(ctx, conn, uri, []lsp.Diagnostic{})
	return nil, nil
}

// Reparses a document and publishes its diagnostics.
func (s *server) update(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) (any, error) {
	s.mu.Lock()
	d, ok := s.docs[uri]
	if !ok {
		fp, err := parse.NewFileParser(s.cfg)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		d = &document{fp: fp}
		s.docs[uri] = d
	}
	d.tree = d.fp.Parse(content)
	diags := diagnostics(d.tree)
	s.mu.Unlock()
	logger.Printf("%s: %d diagnostics, cache %v", uri, len(diags), d.fp.Stats())
	go publishDiagnostics(ctx, conn, uri, diags)
	return nil, nil
}

func (s *server) tree(uri lsp.DocumentURI) *parse.FileTree {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.docs[uri]; ok {
		return d.tree
	}
	return nil
}

func (s *server) formatting(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DocumentFormattingParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	tree := s.tree(params.TextDocument.URI)
	if tree == nil {
		return []lsp.TextEdit{}, nil
	}
	content := tree.Source()
	formatted := parse.PrintFile(tree)
	if formatted == content {
		return []lsp.TextEdit{}, nil
	}
	return []lsp.TextEdit{{
		Range:   lspRangeFromRange(content, diag.Ranging{From: 0, To: len(content)}),
		NewText: formatted,
	}}, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	tree := s.tree(params.TextDocument.URI)
	if tree == nil {
		return lsp.Hover{}, nil
	}
	content := tree.Source()
	idx := lspPositionToIdx(content, params.Position)
	for _, l := range tree.Lines() {
		if idx < l.Start || idx > l.Start+len(l.Text) {
			continue
		}
		for _, ch := range parse.Children(l.Node) {
			if rg := ch.Range(); rg.From <= idx && idx < rg.To {
				hoverRange := lspRangeFromRange(content, ch)
				return lsp.Hover{
					Contents: []lsp.MarkedString{lsp.RawMarkedString(describe(l.Node, ch))},
					Range:    &hoverRange,
				}, nil
			}
		}
	}
	return lsp.Hover{}, nil
}

// Describes a child of root by its style tag and canonical text.
func describe(root, n parse.Node) string {
	text := parse.Print(n)
	for _, r := range highlight.Format(root) {
		if r.Ranging == n.Range() {
			return fmt.Sprintf("%s %s", r.Style, text)
		}
	}
	return text
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, diags []lsp.Diagnostic) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diags})
}

func diagnostics(tree *parse.FileTree) []lsp.Diagnostic {
	content := tree.Source()
	errs := tree.Errors()
	diags := make([]lsp.Diagnostic, len(errs))
	for i, err := range errs {
		diags[i] = lsp.Diagnostic{
			Range:    lspRangeFromRange(content, err),
			Severity: lsp.Error,
			Code:     err.Kind.String(),
			Source:   "mcfn",
			Message:  err.Message(),
		}
	}
	return diags
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
// Lines end at "\n" only, like in parse.FileParser; a "\r" before it is
// counted as a character of the line.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\n':
			p.Line++
			p.Character = 0
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
	}
	f(len(s), p)
}
