package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tabwork/internal/config"
	"tabwork/internal/logging"
	"tabwork/internal/session"
	"tabwork/internal/store"
)

// cmdEnv bundles the pieces every command needs: the workspace config, the
// session store, and the active session loaded from it.
type cmdEnv struct {
	ws   string
	cfg  *config.Config
	st   *store.Store
	sess *session.Session

	// saveOnErr tells withSession to persist the session even when the
	// command returns an error. Commands that partially succeed (a batch
	// load with one bad file) set this so the successful work survives.
	saveOnErr bool
}

// openEnv loads configuration, opens the store, and loads (or creates) the
// session named by --session.
func openEnv(ctx context.Context) (*cmdEnv, error) {
	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	}

	cfg, err := config.Load(ws)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logging.Initialize(ws); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	dbPath := cfg.Store.DatabasePath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(ws, dbPath)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	env := &cmdEnv{ws: ws, cfg: cfg, st: st}
	id, err := st.FindSessionByName(ctx, sessionName)
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		env.sess = session.New(sessionName, cfg.Ingest)
	case err != nil:
		st.Close()
		return nil, err
	default:
		rec, err := st.LoadSession(ctx, id)
		if err != nil {
			st.Close()
			return nil, err
		}
		env.sess = session.Restore(rec, cfg.Ingest)
		env.sess.CheckStale()
	}
	return env, nil
}

// close releases the store without persisting session changes.
func (e *cmdEnv) close() {
	e.st.Close()
}

// saveAndClose persists the session, then releases the store.
func (e *cmdEnv) saveAndClose(ctx context.Context) error {
	_, err := e.sess.Save(ctx, e.st)
	if cerr := e.st.Close(); err == nil {
		err = cerr
	}
	return err
}

// withSession runs fn against an opened environment and persists the session
// afterwards. Mutating commands are all built on this.
func withSession(fn func(ctx context.Context, env *cmdEnv, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		if err := fn(ctx, env, args); err != nil {
			if !env.saveOnErr {
				env.close()
				return err
			}
			if serr := env.saveAndClose(ctx); serr != nil {
				return errors.Join(err, serr)
			}
			return err
		}
		return env.saveAndClose(ctx)
	}
}

// withSessionRead is withSession for commands that only inspect state.
func withSessionRead(fn func(ctx context.Context, env *cmdEnv, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.close()
		return fn(ctx, env, args)
	}
}
