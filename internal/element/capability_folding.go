package element

// FoldRange is one folding range; optional fields are nil or empty when unset.
type FoldRange struct {
	StartLine     int
	EndLine       int
	StartChar     *int
	EndChar       *int
	Kind          string
	CollapsedText string
}

// FoldingRangeCapability folds an element so the fold ends before its closing line.
type FoldingRangeCapability struct {
	el        Element
	kind      string
	openWord  string
	closeWord string
}

func NewFoldingRangeCapability(el Element, kind, openWord, closeWord string) *FoldingRangeCapability {
	return &FoldingRangeCapability{el: el, kind: kind, openWord: openWord, closeWord: closeWord}
}

// Range computes the fold; false when nothing is left to fold.
func (c *FoldingRangeCapability) Range() (FoldRange, bool) {
	if c == nil {
		return FoldRange{}, false
	}
	ctx := c.el.Context()
	rng := ctx.Range()
	end := rng.End.Line - ctx.TrailingLineEndingCount()
	if c.closeWord != "" {
		end--
	}
	if end <= rng.Start.Line {
		return FoldRange{}, false
	}
	return FoldRange{
		StartLine:     rng.Start.Line,
		EndLine:       end,
		Kind:          c.kind,
		CollapsedText: c.openWord,
	}, true
}
