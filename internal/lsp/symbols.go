package lsp

import "encoding/json"

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params documentSymbolParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	snap := s.snapshotFor(params.TextDocument.URI)
	out := []symbolInformation{}
	if snap == nil {
		return s.sendResponse(msg.ID, out)
	}
	uri := documentURI(snap.File())
	if uri == "" {
		uri = canonicalURI(params.TextDocument.URI)
	}
	for _, sym := range snap.Symbols() {
		out = append(out, symbolInformation{
			Name:          sym.Name,
			Kind:          int(sym.Kind),
			Location:      location{URI: uri, Range: toLSPRange(sym.Range)},
			ContainerName: sym.ContainerName,
		})
	}
	return s.sendResponse(msg.ID, out)
}
