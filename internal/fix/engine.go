package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"basil/internal/diag"
	"basil/internal/source"
)

// ErrNoFixes is returned when nothing was applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode selects which fixes Apply takes.
type ApplyMode uint8

const (
	// ApplyModeOnce applies the first always-safe fix, or the first fix at all.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every always-safe fix that does not conflict.
	ApplyModeAll
	// ApplyModeID applies the fix with ApplyOptions.TargetID.
	ApplyModeID
)

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// AppliedFix records a fix that reached the disk.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

type FileChange struct {
	Path      string
	EditCount int
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

func (r *ApplyResult) skip(f diag.Fix, reason string) {
	r.Skipped = append(r.Skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: reason})
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply resolves the fixes attached to diagnostics (plus the registered
// action for each diagnostic code), picks a subset by opts.Mode and writes
// the edited modules back to disk. Files keep their BOM and CRLF endings.
func Apply(fs *source.FileSet, reg *Registry, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{
		Applied:     []AppliedFix{},
		Skipped:     []SkippedFix{},
		FileChanges: []FileChange{},
	}
	if fs == nil {
		return res, errors.New("fix: FileSet is nil")
	}

	cands := collect(fs, reg, diagnostics, res)
	slices.SortStableFunc(cands, compareCandidates)
	chosen := choose(cands, opts, res)
	if len(chosen) == 0 {
		return res, ErrNoFixes
	}

	if err := commit(fs, chosen, res); err != nil {
		return res, err
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}
	return res, nil
}

// collect materializes every fix once. Empty fixes and repeated IDs are
// skipped; a fix without ID gets one derived from its diagnostic.
func collect(fs *source.FileSet, reg *Registry, diagnostics []diag.Diagnostic, res *ApplyResult) []candidate {
	ctx := diag.FixBuildContext{FileSet: fs}
	seen := make(map[string]struct{})
	var cands []candidate

	for i := range diagnostics {
		d := diagnostics[i]
		fixes := d.Fixes
		if reg != nil {
			uri := ""
			if f := fs.Get(d.Primary.File); f != nil {
				uri = f.Path
			}
			if action := reg.GetDiagnosticAction(&d, uri); action != nil {
				fixes = append(slices.Clone(fixes), *action)
			}
		}
		if len(fixes) == 0 {
			continue
		}

		resolved, err := diag.MaterializeFixes(ctx, fixes)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedFix{Title: d.Message, Reason: fmt.Sprintf("failed to build fixes: %v", err)})
			continue
		}
		for idx, f := range resolved {
			if len(f.Edits) == 0 {
				res.skip(f, "fix has no edits")
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if _, dup := seen[f.ID]; dup {
				res.skip(f, "duplicate fix id")
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, order: len(cands)})
		}
	}
	return cands
}

// compareCandidates orders fixes by source position, then discovery order,
// so repeated runs over the same modules pick the same fixes.
func compareCandidates(a, b candidate) int {
	pa, pb := a.diag.Primary, b.diag.Primary
	if c := cmp.Or(
		cmp.Compare(pa.File, pb.File),
		cmp.Compare(pa.Start, pb.Start),
		cmp.Compare(pa.End, pb.End),
		cmp.Compare(a.order, b.order),
		cmp.Compare(a.diag.Code, b.diag.Code),
	); c != 0 {
		return c
	}
	if a.fix.IsPreferred != b.fix.IsPreferred {
		if a.fix.IsPreferred {
			return -1
		}
		return 1
	}
	return cmp.Or(strings.Compare(a.fix.ID, b.fix.ID), strings.Compare(a.fix.Title, b.fix.Title))
}

func choose(cands []candidate, opts ApplyOptions, res *ApplyResult) []candidate {
	switch opts.Mode {
	case ApplyModeID:
		i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID })
		switch {
		case i < 0:
			res.Skipped = append(res.Skipped, SkippedFix{ID: opts.TargetID, Reason: "fix id not found"})
		case cands[i].fix.RequiresAll:
			res.Skipped = append(res.Skipped, SkippedFix{ID: opts.TargetID, Reason: "fix requires all fixes to be applied"})
		default:
			return cands[i : i+1]
		}
		return nil

	case ApplyModeAll:
		var out []candidate
		for _, c := range cands {
			if c.fix.Applicability != diag.FixApplicabilityAlwaysSafe {
				res.skip(c.fix, "applicability is "+c.fix.Applicability.String())
				continue
			}
			out = append(out, c)
		}
		return out

	case ApplyModeOnce:
		fallback := -1
		for i, c := range cands {
			if c.fix.RequiresAll {
				res.skip(c.fix, "fix requires all fixes to be applied")
				continue
			}
			if c.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return cands[i : i+1]
			}
			if fallback < 0 {
				fallback = i
			}
		}
		if fallback >= 0 {
			return cands[fallback : fallback+1]
		}
	}
	return nil
}
