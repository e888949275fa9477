package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"tabwork/cmd/tabwork/ui"
	"tabwork/internal/session"
)

// runExplorer starts the interactive dataset browser over the active session.
// Changes made by other commands while it runs show up as stale flags via the
// file watcher.
func runExplorer() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	var watcher *session.Watcher
	if env.cfg.Watch.Enabled {
		watcher, err = session.Watch(ctx, env.sess, env.cfg.Watch)
		if err != nil {
			fmt.Printf("file watching disabled: %v\n", err)
		}
	}
	if watcher != nil {
		defer watcher.Close()
	}

	model := ui.NewExplorer(env.sess, ui.DefaultStyles())
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("explorer failed: %w", err)
	}
	return nil
}
