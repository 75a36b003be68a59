package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sandeepkv93/taskdeck/internal/config"
	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/scheduler"
	"github.com/sandeepkv93/taskdeck/internal/signals"
	"github.com/sandeepkv93/taskdeck/internal/update"
	"github.com/spf13/cobra"
)

func Execute() error {
	return NewRoot().Execute()
}

var runTUI = func(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

type globalFlags struct {
	configPath string
	backendURL string
	statePath  string
	logLevel   string
}

// load resolves the runtime config; flags win over the file and the
// environment.
func (f *globalFlags) load(cmd *cobra.Command) (config.RuntimeConfig, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	pf := cmd.Flags()
	if pf.Changed("backend-url") {
		cfg.BackendURL = f.backendURL
	}
	if pf.Changed("state") {
		cfg.StatePath = f.statePath
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	return cfg, cfg.Validate()
}

func (f *globalFlags) open(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := f.load(cmd)
	if err != nil {
		return nil, err
	}
	return openApp(cfg, opts)
}

func NewRoot() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Terminal client for the taskdeck task board",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, flags)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultConfigPath()+")")
	pf.StringVar(&flags.backendURL, "backend-url", config.DefaultBackendURL, "backend base URL")
	pf.StringVar(&flags.statePath, "state", "", "SQLite state file")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		loginCmd(flags),
		guestCmd(flags),
		logoutCmd(flags),
		whoamiCmd(flags),
		registerCmd(flags),
		passwdCmd(flags),
		profileCmd(flags),
		tasksCmd(flags),
		chatCmd(flags),
	)
	return root
}

func runInteractive(cmd *cobra.Command, flags *globalFlags) error {
	nav := update.NewNavigator()
	a, err := flags.open(cmd, appOptions{gatewayNav: nav, sessionNav: nav})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := a.cfg
	cfg.Theme = a.themeName(ctx)

	deadlines := scheduler.NewEngine(cfg.DeadlineBuffer)
	deadlines.Start()
	defer deadlines.Stop()

	zones := zone.New()
	defer zones.Close()

	m := update.NewModel(update.Deps{
		Session:   a.session,
		Tasks:     a.repository(ctx),
		Bus:       signals.NewBroker(),
		Prefs:     a.state,
		Nav:       nav,
		Deadlines: deadlines,
		Zones:     zones,
		Copy:      copyText,
		Logger:    a.logger,
		Now:       time.Now,
	}, cfg)
	a.logger.Info("tui starting", "theme", cfg.Theme, "sort", string(a.initialFilter(ctx).Sort))
	return runTUI(m)
}

// sortFlag validates a --sort value.
func sortFlag(raw string) (model.SortOrder, error) {
	if raw == "" {
		return "", nil
	}
	return model.ParseSortOrder(raw)
}
