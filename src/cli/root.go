package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"outliner/src/config"
	"outliner/src/events"
	"outliner/src/logging"
	"outliner/src/model"
	"outliner/src/outline"
	"outliner/src/spellcheck"
	"outliner/src/statistics"
	"outliner/src/store"
	"outliner/src/workspace"
)

type rootOptions struct {
	dataDir  string
	logLevel string
	envFile  string
}

// NewRootCommand builds the outliner command tree. Without a subcommand it
// runs the interactive REPL reading from in.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Tree outliner with a persistent workspace",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			return a.repl(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding workspace.json (default: user config dir)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file to read before the environment (default: .env)")

	root.AddCommand(newPathCommand(opts), newCheckCommand(opts), newDumpCommand(opts))
	return root
}

func newPathCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the workspace file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			path, err := a.store.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report integrity problems in the workspace file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			ws, err := a.readOnly()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if ws == nil {
				fmt.Fprintln(out, "no workspace file")
				return nil
			}
			problems := model.Check(*ws)
			for _, p := range problems {
				fmt.Fprintln(out, p.String())
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d integrity problem(s) found", len(problems))
			}
			fmt.Fprintf(out, "ok: %d document(s), %d tab(s)\n", len(ws.Documents), len(ws.Tabs))
			return nil
		},
	}
}

func newDumpCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Render every document of the workspace as an outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			ws, err := a.readOnly()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if ws == nil {
				fmt.Fprintln(out, "no workspace file")
				return nil
			}
			for _, id := range documentOrder(*ws) {
				fmt.Fprintln(out, outline.RenderDocument(ws.Documents[id]))
			}
			return nil
		},
	}
}

// documentOrder lists tabbed documents first, in tab order, then the rest by id.
func documentOrder(ws model.Workspace) []string {
	seen := map[string]bool{}
	var ids []string
	for _, tab := range ws.Tabs {
		if _, ok := ws.Documents[tab.DocID]; ok && !seen[tab.DocID] {
			seen[tab.DocID] = true
			ids = append(ids, tab.DocID)
		}
	}
	var rest []string
	for id := range ws.Documents {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	bus    *events.Bus
	store  *store.Store
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(config.Overrides{
		DataDir:  opts.dataDir,
		LogLevel: opts.logLevel,
		EnvFile:  opts.envFile,
	})
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		logger.Warn("configuration", zap.String("detail", w))
	}
	bus := events.NewBus()
	st := store.New(store.DataDir(cfg.DataDir),
		store.WithLogger(logger.Named("store")),
		store.WithQuarantineHook(func(original, backup string, cause error) {
			bus.Publish(events.Event{
				Type: events.EventWorkspaceQuarantined,
				Metadata: map[string]string{
					"path":   original,
					"backup": backup,
					"cause":  cause.Error(),
				},
			})
		}))
	return &app{cfg: cfg, logger: logger, bus: bus, store: st}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// repository returns the store, or an unavailable repository when the data
// directory cannot be used.
func (a *app) repository(console *Console) workspace.Repository {
	if _, err := a.store.Path(); err != nil {
		a.logger.Warn("workspace persistence disabled", zap.Error(err))
		console.Printf("无法使用数据目录，本次修改不会被保存: %v", err)
		return store.Unavailable{}
	}
	return a.store
}

// readOnly decodes the workspace file without quarantining it or creating
// the data directory.
func (a *app) readOnly() (*model.Workspace, error) {
	path, err := store.DataDir(a.cfg.DataDir).WorkspacePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ws, err := store.Decode(data)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (a *app) repl(in io.Reader, out io.Writer) error {
	console := NewConsole(in, out)
	tracing := logging.NewManager(a.logger)
	defer a.bus.Subscribe(tracing)()

	session := workspace.NewSession(a.repository(console),
		workspace.WithBus(a.bus),
		workspace.WithLogger(a.logger.Named("session")),
		workspace.WithTracker(statistics.NewTracker(nil)))
	if err := session.Restore(); err != nil {
		return err
	}
	speller := spellcheck.NewService(spellcheck.NewDictionaryChecker())
	return NewDispatcher(session, console, tracing, speller).Run()
}
