package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tabwork/internal/config"
	"tabwork/internal/session"
)

func explorerSession(t *testing.T) *session.Session {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.csv")
	if err := os.WriteFile(path, []byte("city,pop\nlyon,513\nporto,237\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := session.New("test", config.DefaultConfig().Ingest)
	if _, err := s.Load(context.Background(), []string{path}, false); err != nil {
		t.Fatal(err)
	}
	return s
}

func sized(e *Explorer) *Explorer {
	model, _ := e.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(*Explorer)
}

func TestExplorer_ShowsDatasetPreview(t *testing.T) {
	e := sized(NewExplorer(explorerSession(t), DefaultStyles()))

	view := e.View()
	if !strings.Contains(view, "cities.csv") {
		t.Error("sidebar missing dataset name")
	}
	if !strings.Contains(view, "lyon") {
		t.Error("preview missing cell content")
	}
	if !strings.Contains(view, "─") {
		t.Error("missing divider above the footer")
	}
}

func TestExplorer_StatsToggle(t *testing.T) {
	e := sized(NewExplorer(explorerSession(t), DefaultStyles()))

	model, _ := e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	e = model.(*Explorer)
	if !strings.Contains(e.View(), "describe") {
		t.Error("stats toggle should show the describe table")
	}

	model, _ = e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	e = model.(*Explorer)
	if strings.Contains(e.View(), "describe") {
		t.Error("second toggle should return to the preview")
	}
}

func TestExplorer_QuitKeys(t *testing.T) {
	e := sized(NewExplorer(explorerSession(t), DefaultStyles()))

	_, cmd := e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("expected quit message, got %v", msg)
	}
}

func TestExplorer_EmptySession(t *testing.T) {
	s := session.New("empty", config.DefaultConfig().Ingest)
	e := sized(NewExplorer(s, DefaultStyles()))

	if !strings.Contains(e.View(), "No datasets loaded") {
		t.Error("empty session should show a hint")
	}
}
