package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of --ui: whether diag shows the bubbletea progress view.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	m := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI resolves auto: progress only for an interactive, non-quiet
// run where stdout is a terminal that the report will be printed to.
func shouldUseTUI(mode uiMode, quiet bool) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return !quiet && isTerminal(os.Stdout) && isTerminal(os.Stdin)
}
