package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/project-hub/internal/activity"
	"github.com/nhle/project-hub/internal/app"
	"github.com/nhle/project-hub/internal/kanban"
	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/notify"
	"github.com/nhle/project-hub/internal/realtime"
	"github.com/nhle/project-hub/internal/store"
	"github.com/nhle/project-hub/internal/toast"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "projecthub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := setupLogger()
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = model.DefaultDatabasePath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	user := model.User{ID: cfg.User.ID, Name: cfg.User.Name}

	project, err := loadOrSeedProject(db, user)
	if err != nil {
		return fmt.Errorf("preparing project: %w", err)
	}

	bus := realtime.NewBus(log)

	notifications, err := notify.NewStore(db, log)
	if err != nil {
		return fmt.Errorf("loading notifications: %w", err)
	}

	service := kanban.NewService(db, bus, notifications)
	feed := activity.NewFeed(bus, project.ID, log)
	toastMgr := toast.NewManager(
		notifications,
		user.ID,
		time.Duration(cfg.Notifications.PollIntervalMs)*time.Millisecond,
		time.Duration(cfg.Notifications.ToastTimeoutMs)*time.Millisecond,
		log,
	)

	root := app.New(app.Deps{
		Store:         db,
		Service:       service,
		Notifications: notifications,
		Toasts:        toastMgr,
		Feed:          feed,
		Project:       *project,
		User:          user,
		Log:           log,
	})

	program := tea.NewProgram(root, tea.WithAltScreen())
	_, err = program.Run()

	toastMgr.Stop()
	feed.Close()

	if err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// setupLogger writes structured logs to a file next to the config so the
// terminal stays clean for the UI.
func setupLogger() (logrus.FieldLogger, error) {
	logPath := filepath.Join(filepath.Dir(model.DefaultConfigPath()), "projecthub.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	log := logrus.New()
	log.SetOutput(f)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, nil
}

// loadOrSeedProject returns the user's first project, creating a starter
// project with the standard three columns on first run.
func loadOrSeedProject(db store.Store, user model.User) (*model.Project, error) {
	ctx := context.Background()

	projects, err := db.GetProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if len(projects) > 0 {
		return db.GetProjectByID(ctx, projects[0].ID)
	}

	project := model.Project{
		ID:      "project-default",
		Name:    "My Project",
		OwnerID: user.ID,
	}
	if err := db.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("creating starter project: %w", err)
	}

	for i, title := range []string{"To Do", "In Progress", "Done"} {
		board := model.Board{
			ID:        fmt.Sprintf("board-%d", i+1),
			ProjectID: project.ID,
			Title:     title,
		}
		if err := db.CreateBoard(ctx, board); err != nil {
			return nil, fmt.Errorf("creating starter board: %w", err)
		}
	}

	return db.GetProjectByID(ctx, project.ID)
}
