package lsp

import "encoding/json"

func (s *Server) handleSemanticTokensFull(msg *rpcMessage) error {
	var params semanticTokensParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	result := semanticTokens{Data: []uint32{}}
	if snap := s.snapshotFor(params.TextDocument.URI); snap != nil {
		if data := snap.SemanticTokens(nil); data != nil {
			result.Data = data
		}
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleSemanticTokensRange(msg *rpcMessage) error {
	var params semanticTokensRangeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	result := semanticTokens{Data: []uint32{}}
	if snap := s.snapshotFor(params.TextDocument.URI); snap != nil {
		rng := fromLSPRange(params.Range)
		if data := snap.SemanticTokens(&rng); data != nil {
			result.Data = data
		}
	}
	return s.sendResponse(msg.ID, result)
}
