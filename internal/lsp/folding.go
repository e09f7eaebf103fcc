package lsp

import "encoding/json"

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	snap := s.snapshotFor(params.TextDocument.URI)
	ranges := []foldingRange{}
	if snap != nil {
		for _, fr := range snap.FoldRanges() {
			ranges = append(ranges, foldingRange{
				StartLine:      fr.StartLine,
				StartCharacter: fr.StartChar,
				EndLine:        fr.EndLine,
				EndCharacter:   fr.EndChar,
				Kind:           fr.Kind,
				CollapsedText:  fr.CollapsedText,
			})
		}
	}
	return s.sendResponse(msg.ID, ranges)
}
