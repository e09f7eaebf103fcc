package driver

import (
	"context"

	"basil/internal/diag"
	"basil/internal/fix"
)

// Fix analyses targets and applies the registered fix-its to the files on disk.
// The returned DiagnoseResult reflects the state before the edits.
func Fix(ctx context.Context, targets []string, opts DiagnoseOptions, apply fix.ApplyOptions) (*DiagnoseResult, *fix.ApplyResult, error) {
	res, err := Diagnose(ctx, targets, opts)
	if err != nil {
		return nil, nil, err
	}
	var all []diag.Diagnostic
	for _, f := range res.Files {
		all = append(all, f.Bag.Items()...)
	}
	applied, err := fix.Apply(res.FileSet, res.Workspace.Actions(), all, apply)
	return res, applied, err
}
