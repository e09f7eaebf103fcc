package ui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"basil/internal/driver"
)

func TestProgressTracksModules(t *testing.T) {
	m := NewProgressModel("diag", "/proj", nil).(*progressModel)

	m.applyEvent(driver.Event{File: "/proj/A.bas", Stage: driver.StageParse, Status: driver.StatusQueued})
	m.applyEvent(driver.Event{File: "/proj/mod/B.cls", Stage: driver.StageParse, Status: driver.StatusQueued})
	if got := m.percent(); got != 0 {
		t.Fatalf("percent after queue = %v, want 0", got)
	}

	m.applyEvent(driver.Event{File: "/proj/A.bas", Stage: driver.StageBind, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "/proj/mod/B.cls", Stage: driver.StageReport, Status: driver.StatusError, Errors: 2, Warnings: 1})
	if got := m.percent(); got != 0.75 {
		t.Fatalf("percent = %v, want 0.75", got)
	}
	if len(m.modules) != 2 {
		t.Fatalf("modules = %d, want 2", len(m.modules))
	}

	m.applyEvent(driver.Event{Stage: driver.StageBind, Status: driver.StatusDone})
	if m.phase != "done" {
		t.Fatalf("phase = %q", m.phase)
	}

	view := m.View()
	for _, want := range []string{"binding", "A.bas", "mod/B.cls", "2E", "1W", "1/2 modules, 2 errors, 1 warnings"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "/proj/") {
		t.Fatalf("paths should be relative to root:\n%s", view)
	}
}

func TestProgressFoldsLongLists(t *testing.T) {
	m := NewProgressModel("diag", "", nil).(*progressModel)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: chromeRows + 4})
	for i := range 10 {
		m.applyEvent(driver.Event{File: fmt.Sprintf("Module%d.bas", i), Stage: driver.StageParse, Status: driver.StatusQueued})
	}
	view := m.View()
	if !strings.Contains(view, "… 7 more modules") {
		t.Fatalf("expected folded rows:\n%s", view)
	}
	if strings.Contains(view, "Module6.bas") || !strings.Contains(view, "Module9.bas") {
		t.Fatalf("the newest modules must stay visible:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Module1.bas", 20); got != "Module1.bas" {
		t.Fatalf("short value changed: %q", got)
	}
	if got := truncate("VeryLongModuleName.bas", 10); got != "VeryLon..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("narrow truncate = %q", got)
	}
	// хвост "..." входит в ширину
	for _, value := range []string{"VeryLongModuleName.bas", "МодульОчень.bas", "模块模块模块模块.bas"} {
		if w := runewidth.StringWidth(truncate(value, 10)); w > 10 || w < 9 {
			t.Errorf("truncate(%q, 10) has width %d", value, w)
		}
	}
}
