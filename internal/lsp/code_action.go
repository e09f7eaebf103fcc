package lsp

import (
	"encoding/json"
	"strings"

	"basil/internal/diag"
	"basil/internal/source"
	"basil/internal/workspace"
)

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	actions := []codeAction{}
	if snap := s.snapshotFor(params.TextDocument.URI); snap != nil {
		actions = s.buildCodeActions(snap, params)
	}
	return s.sendResponse(msg.ID, actions)
}

// buildCodeActions returns one action per fixable diagnostic. Diagnostics
// sent by the client are matched by code and range; without them every
// diagnostic on the requested lines qualifies.
func (s *Server) buildCodeActions(snap *workspace.Snapshot, params codeActionParams) []codeAction {
	fs := s.workspace().FileSet()
	requested := fromLSPRange(params.Range)
	items := snap.Diagnostics()
	seen := make(map[string]struct{})
	var out []codeAction
	for i := range items {
		d := &items[i]
		converted := s.toLSPDiagnostic(snap, d)
		if !wantDiagnostic(converted, params.Context.Diagnostics, requested) {
			continue
		}
		fix := snap.DiagnosticAction(d)
		if fix == nil || !kindAllowed(fix.Kind, params.Context.Only) {
			continue
		}
		key := fix.ID + "\x00" + fix.Title
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		edit := toWorkspaceEdit(fs, fix.Edits)
		if edit == nil {
			continue
		}
		out = append(out, codeAction{
			Title:       fix.Title,
			Kind:        fix.Kind.String(),
			Diagnostics: []lspDiagnostic{converted},
			IsPreferred: fix.IsPreferred,
			Edit:        edit,
		})
	}
	if out == nil {
		out = []codeAction{}
	}
	return out
}

func wantDiagnostic(d lspDiagnostic, sent []lspDiagnostic, requested source.Range) bool {
	if len(sent) == 0 {
		return fromLSPRange(d.Range).Overlaps(requested)
	}
	for _, c := range sent {
		if c.Code == d.Code && c.Range == d.Range {
			return true
		}
	}
	return false
}

// kindAllowed applies the client's "only" filter; "source" admits
// "source.fixAll" and friends.
func kindAllowed(kind diag.FixKind, only []string) bool {
	if len(only) == 0 {
		return true
	}
	k := kind.String()
	for _, o := range only {
		if k == o || strings.HasPrefix(k, o+".") {
			return true
		}
	}
	return false
}

func toWorkspaceEdit(fs *source.FileSet, edits []diag.TextEdit) *workspaceEdit {
	changes := make(map[string][]textEdit)
	for _, e := range edits {
		file := fs.Get(e.Span.File)
		if file == nil {
			continue
		}
		uri := documentURI(file)
		changes[uri] = append(changes[uri], textEdit{
			Range:   toLSPRange(file.Range(e.Span)),
			NewText: e.NewText,
		})
	}
	if len(changes) == 0 {
		return nil
	}
	return &workspaceEdit{Changes: changes}
}
