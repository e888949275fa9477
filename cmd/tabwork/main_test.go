package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tabwork/internal/stats"
	"tabwork/internal/store"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	return rootCmd.Execute()
}

func TestCommandWiring(t *testing.T) {
	want := []string{
		"load", "list", "status", "preview", "clean", "cols", "rows",
		"sort", "filter", "group", "index", "combine", "formula",
		"stats", "plot", "report", "sessions",
	}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "workspace", "session", "timeout"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q not registered", name)
		}
	}
}

func TestSubcommandWiring(t *testing.T) {
	cases := map[string][]string{
		"clean":    {"dedupe", "dropna", "fillna", "convert"},
		"cols":     {"list", "drop", "restore", "rename"},
		"rows":     {"drop", "restore"},
		"index":    {"set", "reset"},
		"combine":  {"concat", "merge"},
		"sessions": {"list", "rename", "delete"},
	}
	for parent, subs := range cases {
		var found bool
		for _, c := range rootCmd.Commands() {
			if c.Name() != parent {
				continue
			}
			found = true
			names := make(map[string]bool)
			for _, sc := range c.Commands() {
				names[sc.Name()] = true
			}
			for _, sub := range subs {
				if !names[sub] {
					t.Errorf("%s missing subcommand %q", parent, sub)
				}
			}
		}
		if !found {
			t.Errorf("command %q not registered", parent)
		}
	}
}

func TestLoad_PartialFailureKeepsLoadedDatasets(t *testing.T) {
	ws := t.TempDir()
	good := filepath.Join(ws, "good.csv")
	if err := os.WriteFile(good, []byte("a\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(ws, "missing.csv")

	err := execute(t, "load", good, missing, "-w", ws)
	if err == nil || !strings.Contains(err.Error(), "failed to load") {
		t.Fatalf("want a partial-failure error, got %v", err)
	}

	st, err := store.Open(filepath.Join(ws, ".tabwork", "session.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	id, err := st.FindSessionByName(context.Background(), "default")
	if err != nil {
		t.Fatalf("session was not persisted: %v", err)
	}
	rec, err := st.LoadSession(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Datasets) != 1 || rec.Datasets[0].Name != "good.csv" {
		t.Fatalf("want good.csv persisted, got %+v", rec.Datasets)
	}
}

func TestPlot_ArgumentErrorLeavesNoFile(t *testing.T) {
	ws := t.TempDir()
	csv := filepath.Join(ws, "data.csv")
	if err := os.WriteFile(csv, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "load", csv, "-w", ws); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(ws, "out.html")
	err := execute(t, "plot", "data.csv", "scatter", "a", "-w", ws, "-o", out)
	if err == nil || !strings.Contains(err.Error(), "column argument") {
		t.Fatalf("want an arity error, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("argument error must not create the output file")
	}
}

func TestCorrMarkdown(t *testing.T) {
	m := &stats.CorrMatrix{
		Columns: []string{"x", "y"},
		Values:  [][]float64{{1, 0.5}, {0.5, 1}},
	}
	md := corrMarkdown("sales.csv", m)
	for _, want := range []string{"## sales.csv correlation", "| x |", "1.0000", "0.5000"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
