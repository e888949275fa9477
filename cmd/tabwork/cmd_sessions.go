package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tabwork/internal/store"
)

// =============================================================================
// SESSION MANAGEMENT COMMANDS
// =============================================================================

// sessionsCmd manages saved sessions
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved sessions",
	Long: `List and manage saved sessions.

Subcommands:
  list   - List all saved sessions
  rename - Rename the active session
  delete - Delete a saved session`,
	RunE: runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <new-name>",
	Short: "Rename the active session",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		newName := args[0]
		if newName == env.sess.Name() {
			return nil
		}
		if _, err := env.st.FindSessionByName(ctx, newName); err == nil {
			return fmt.Errorf("session %q already exists", newName)
		} else if !errors.Is(err, store.ErrSessionNotFound) {
			return err
		}
		old := env.sess.Name()
		env.sess.Rename(newName)
		fmt.Printf("Renamed session %q to %q.\n", old, newName)
		return nil
	}),
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	metas, err := env.st.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("No saved sessions.")
		return nil
	}
	for _, m := range metas {
		active := ""
		if m.Name == env.sess.Name() {
			active = "  (active)"
		}
		fmt.Printf("  %s  %d datasets  updated %s%s\n",
			m.Name, m.Datasets, m.UpdatedAt.Local().Format("2006-01-02 15:04"), active)
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	id, err := env.st.FindSessionByName(ctx, args[0])
	if errors.Is(err, store.ErrSessionNotFound) {
		return fmt.Errorf("session %q not found; use 'tabwork sessions list'", args[0])
	}
	if err != nil {
		return err
	}
	if err := env.st.DeleteSession(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted session %q.\n", args[0])
	return nil
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsRenameCmd, sessionsDeleteCmd)
}
