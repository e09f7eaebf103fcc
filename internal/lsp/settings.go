package lsp

import "encoding/json"

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if s.applySettings(params.Settings) {
		s.reanalyzeOpenDocs()
	}
	return nil
}

// applySettings reads the "basil" section. It reports whether analysis
// results may change, e.g. because the line ceiling moved.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return false
	}
	s.mu.Lock()
	if settings.Basil.Trace != nil {
		s.traceLSP = *settings.Basil.Trace
	}
	s.mu.Unlock()

	if settings.Basil.MaxLines == nil {
		return false
	}
	ws := s.workspace()
	before := ws.MaxLines()
	ws.SetMaxLines(*settings.Basil.MaxLines)
	return ws.MaxLines() != before
}

func (s *Server) currentTrace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traceLSP
}
