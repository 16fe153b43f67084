// Package cli implements the interactive EduLine client shell. It owns the
// wiring of the session coordinator: durable store, API client, state
// store, actions, and the refresh scheduler's lifetime.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eduline/eduline-client/internal/client/api"
	"github.com/eduline/eduline-client/internal/client/config"
	"github.com/eduline/eduline-client/internal/client/repositories"
	"github.com/eduline/eduline-client/internal/client/repositories/metadata"
	"github.com/eduline/eduline-client/internal/client/session"
	"github.com/eduline/eduline-client/internal/client/snapshot"
	"github.com/eduline/eduline-client/internal/logging"
)

// App is the interactive client application.
type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	store     *session.Store
	manager   *session.Manager
	transport *api.AuthTransport
	scheduler *session.Scheduler
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp builds the full dependency graph of the client.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := repositories.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	snaps := snapshot.NewAdapter(metadata.NewSQLiteRepository(db))
	creds := api.NewCredentials()
	transport := api.NewAuthTransport(nil, creds, log)

	apiClient, err := api.NewHTTPClient(cfg.ServerBaseURL, transport, cfg.RequestTimeout, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := session.NewStore()
	manager := session.NewManager(store, apiClient, creds, snaps, cfg.SessionWindow, log)
	transport.SetRefreshFunc(manager.Refresh)

	scheduler := session.NewScheduler(cfg.RefreshLeadTime, transport.Refresh, log)
	store.Subscribe(scheduler.Observe)

	app := &App{
		config:    cfg,
		log:       log,
		db:        db,
		store:     store,
		manager:   manager,
		transport: transport,
		scheduler: scheduler,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
	transport.SetSessionEndHook(func() {
		fmt.Fprintln(app.out, "Your session has ended. Please log in again.")
	})
	return app, nil
}

// Close releases the scheduler timer and the database handle.
func (a *App) Close() {
	a.scheduler.Stop()
	_ = a.db.Close()
}

func (a *App) prompt() string {
	s := a.store.Current()
	if s.IsAuthenticated {
		return fmt.Sprintf("eduline (%s %s)> ", s.User.Email, s.User.Role)
	}
	return "eduline> "
}

// Run rehydrates the session, probes the backend, and enters the command
// loop. It returns when the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.manager.Hydrate(ctx)
	a.manager.Initialize(ctx)

	if s := a.store.Current(); s.Err != "" {
		fmt.Fprintf(a.out, "Warning: %s\n", s.Err)
	}

	fmt.Fprintln(a.out, "Welcome to EduLine (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		if ctx.Err() != nil {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.store.Current().IsAuthenticated {
				fmt.Fprintln(a.out, "Available commands: whoami, refresh, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: login, register, exit")
			}
		case "login":
			a.Login(ctx)
		case "register":
			a.Register(ctx)
		case "whoami":
			a.WhoAmI()
		case "refresh":
			a.RefreshNow(ctx)
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", parts[0])
		}
	}
}
