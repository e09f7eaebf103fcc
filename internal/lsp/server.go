package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"basil/internal/diag"
	"basil/internal/element"
	"basil/internal/project"
	"basil/internal/source"
	"basil/internal/trace"
	"basil/internal/workspace"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	// Debounce delays re-analysis after an edit; 0 selects 300ms.
	Debounce time.Duration
	// WaitTimeout bounds how long a request waits for the current version
	// of its document; 0 selects 2s.
	WaitTimeout    time.Duration
	MaxDiagnostics int
	Tracer         trace.Tracer
	Version        string
}

type openDoc struct {
	text    string
	version int
}

// Server handles stdio JSON-RPC for the Basil LSP.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	mu        sync.Mutex
	openDocs  map[string]*openDoc
	published map[string]uint64 // поколение последней публикации
	timers    map[string]*time.Timer
	seqs      map[string]uint64
	seq       uint64
	ws        *workspace.Workspace
	project   projectScope

	// publishMu serialises publishAll so generations go out in order.
	publishMu sync.Mutex

	workspaceRoot     string
	shutdownRequested bool
	debounce          time.Duration
	waitTimeout       time.Duration
	maxDiagnostics    int
	tracer            trace.Tracer
	version           string
	baseCtx           context.Context
	traceLSP          bool
}

// NewServer constructs a new LSP server. Until initialize arrives it analyses
// documents with the default configuration.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	waitTimeout := opts.WaitTimeout
	if waitTimeout <= 0 {
		waitTimeout = 2 * time.Second
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		openDocs:       make(map[string]*openDoc),
		published:      make(map[string]uint64),
		timers:         make(map[string]*time.Timer),
		seqs:           make(map[string]uint64),
		ws:             workspace.New(workspace.Options{Tracer: tracer}),
		project:        projectScope{config: project.Default()},
		debounce:       debounce,
		waitTimeout:    waitTimeout,
		maxDiagnostics: maxDiagnostics,
		tracer:         tracer,
		version:        opts.Version,
		baseCtx:        context.Background(),
	}
}

// Run serves LSP requests until shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	defer s.stopTimers()
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	if s.currentTrace() {
		s.logf("<- %s", msg.Method)
	}
	trace.Debug(s.tracer, trace.ScopeDocument, "lsp.message", msg.Method)
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.isShutdown() {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	case "textDocument/semanticTokens/full":
		return s.handleSemanticTokensFull(msg)
	case "textDocument/semanticTokens/range":
		return s.handleSemanticTokensRange(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = source.URIToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = source.URIToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}

	scope := detectProject(root)
	if scope.err != nil {
		s.logf("%s: %v; using defaults", diag.ProjInvalidManifest.ID(), scope.err)
		trace.Warnf(s.tracer, trace.ScopeWorkspace, "lsp.manifest", "%s: %v", diag.ProjInvalidManifest.ID(), scope.err)
	}
	ws := workspace.New(workspace.Options{
		Tracer:    s.tracer,
		MaxLines:  scope.config.Analysis.MaxLines,
		Libraries: scope.config.Libraries(),
	})
	ws.FileSet().SetBaseDir(scope.root)

	s.mu.Lock()
	s.workspaceRoot = root
	s.project = scope
	s.ws = ws
	s.mu.Unlock()

	if len(params.InitializationOptions) > 0 {
		s.applySettings(params.InitializationOptions)
	}
	if scope.manifest != nil {
		s.loadProjectFiles(ws, scope)
	}

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			DocumentSymbolProvider: true,
			FoldingRangeProvider:   true,
			SemanticTokensProvider: &semanticTokensOptions{
				Legend: semanticTokensLegend{
					TokenTypes:     element.TokenTypes,
					TokenModifiers: element.TokenModifiers,
				},
				Full:  true,
				Range: true,
			},
			CodeActionProvider: &codeActionOptions{
				CodeActionKinds: []string{diag.FixKindQuickFix.String(), diag.FixKindSourceAction.String()},
			},
		},
		ServerInfo: &serverInfo{Name: "basil", Version: s.version},
	}
	return s.sendResponse(msg.ID, result)
}

// loadProjectFiles binds every project source file before initialize
// answers, so the first request already sees the whole project.
func (s *Server) loadProjectFiles(ws *workspace.Workspace, scope projectScope) {
	files, err := project.CollectFiles(scope.root, scope.config.Analysis)
	if err != nil {
		s.logf("collect project files: %v", err)
		return
	}
	results, err := ws.LoadFiles(s.context(), files)
	if err != nil {
		s.logf("load project files: %v", err)
		return
	}
	for _, r := range results {
		if r.Err != nil {
			s.logf("%s: %v", diag.IOLoadFileError.ID(), r.Err)
		}
	}
	trace.Info(s.tracer, trace.ScopeWorkspace, "lsp.project", ws.Stats().String())
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.stopTimers()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	s.openDocs[uri] = &openDoc{text: params.TextDocument.Text, version: params.TextDocument.Version}
	s.mu.Unlock()
	s.scheduleUpdate(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	doc, ok := s.openDocs[uri]
	if !ok {
		doc = &openDoc{}
		s.openDocs[uri] = doc
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	verbose := s.traceLSP
	s.mu.Unlock()
	if verbose {
		s.logf("didChange: uri=%s version=%d", uri, params.TextDocument.Version)
	}
	s.scheduleUpdate(uri)
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	doc, ok := s.openDocs[uri]
	if ok && params.Text != nil {
		doc.text = *params.Text
	}
	s.mu.Unlock()
	if ok {
		s.scheduleUpdate(uri)
	}
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.openDocs, uri)
	s.cancelTimerLocked(uri)
	_, hadDiagnostics := s.published[uri]
	delete(s.published, uri)
	scope := s.project
	ws := s.ws
	s.mu.Unlock()

	if path := source.URIToPath(uri); scope.owns(path) {
		// файл проекта остаётся в графе с содержимым с диска
		if data, err := os.ReadFile(path); err == nil { // #nosec G304 -- path comes from the client's project
			if _, err := ws.Update(s.context(), uri, 0, data); err != nil && !ignorableUpdateError(err) {
				s.logf("reload %s: %v", uri, err)
			}
		} else {
			ws.Remove(uri)
		}
	} else {
		ws.Remove(uri)
	}

	if hadDiagnostics {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	s.publishAll()
	return nil
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     version,
			Diagnostics: list,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}

func (s *Server) workspace() *workspace.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws
}

func (s *Server) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseCtx
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownRequested
}

// canonicalURI normalises file URIs so that editor spellings and project
// paths agree; other schemes pass through.
func canonicalURI(uri string) string {
	if uri == "" {
		return ""
	}
	if path := source.URIToPath(uri); path != "" {
		return source.PathToURI(path)
	}
	return uri
}

// documentURI is the URI edits and locations in file refer to.
func documentURI(file *source.File) string {
	if file == nil {
		return ""
	}
	if source.IsURI(file.Path) {
		return file.Path
	}
	return source.PathToURI(file.Path)
}
