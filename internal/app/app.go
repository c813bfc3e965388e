// Package app wires marginalia's components together: configuration,
// logging, open documents, the annotation store, the annotation commands
// and the Lua script host.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dshills/marginalia/internal/annotation"
	"github.com/dshills/marginalia/internal/command"
	"github.com/dshills/marginalia/internal/config"
	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/logging"
	"github.com/dshills/marginalia/internal/plugin"
	"github.com/dshills/marginalia/internal/plugin/api"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// Config is used instead of loading ConfigPath when set.
	Config *config.Config

	// Files are files to open on startup. The last one has focus.
	Files []string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to standard error.
	LogOutput io.Writer

	// ScriptOutput receives script print output. Defaults to standard error.
	ScriptOutput io.Writer

	// UI prompts for comments and shows errors.
	UI command.UI
}

// Application is the central coordinator for all marginalia components.
type Application struct {
	config    *config.Config
	logger    *logging.Logger
	documents *document.Manager
	store     *annotation.Store
	commands  *command.Handler
	plugins   *plugin.Host

	opts Options
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:      opts,
		documents: document.NewManager(),
	}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg := app.opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(app.opts.ConfigPath); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	if app.opts.LogLevel != "" {
		if !logging.ValidLevel(app.opts.LogLevel) {
			return &InitError{Component: "logging", Err: fmt.Errorf("unknown level %q", app.opts.LogLevel)}
		}
		cfg.Logging.Level = app.opts.LogLevel
	}
	app.config = cfg

	// 2. Logger
	logOutput := app.opts.LogOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Output = logOutput
	app.logger = logging.New(logCfg)

	// 3. Annotation store, guarded by the document manager's focus
	app.store = annotation.NewStore(
		annotation.WithSettingsKey(cfg.Annotation.SettingsKey),
		annotation.WithKeyPrefix(cfg.Annotation.KeyPrefix),
		annotation.WithLogger(app.logger),
		annotation.WithWorkspace(app.documents),
	)

	// 4. Commands
	ui := app.opts.UI
	if ui == nil {
		ui = &logUI{logger: app.logger.WithComponent("ui")}
	}
	app.commands = command.NewHandler(app.store, ui,
		command.WithConflictMessage(cfg.Annotation.ConflictMessage),
		command.WithPromptTitle(cfg.Annotation.PromptTitle),
		command.WithLogger(app.logger),
	)

	// 5. Script host
	scriptOutput := app.opts.ScriptOutput
	if scriptOutput == nil {
		scriptOutput = os.Stderr
	}
	app.plugins = plugin.NewHost(&api.Context{
		Workspace:    app.documents,
		Store:        app.store,
		Commands:     app.commands,
		PreviewWidth: cfg.Annotation.PreviewWidth,
	},
		plugin.WithHostExecutionTimeout(cfg.Plugin.TimeoutDuration()),
		plugin.WithHostCallLimit(cfg.Plugin.CallLimit),
		plugin.WithHostOutput(scriptOutput),
		plugin.WithHostLogger(app.logger),
	)

	// 6. Initial files
	for _, file := range app.opts.Files {
		doc, err := app.documents.Open(file)
		if err != nil {
			app.plugins.Close()
			return NewOperationError("open", file, err)
		}
		if _, err := app.store.Load(doc); err != nil {
			app.plugins.Close()
			return NewOperationError("load annotations", file, err)
		}
		app.logger.Debug("opened %s", doc.Path())
	}

	return nil
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Documents returns the document manager.
func (app *Application) Documents() *document.Manager {
	return app.documents
}

// Store returns the annotation store.
func (app *Application) Store() *annotation.Store {
	return app.store
}

// Commands returns the annotation command handler.
func (app *Application) Commands() *command.Handler {
	return app.commands
}

// Execute runs an annotation command on the active document.
func (app *Application) Execute(action string) command.Result {
	return app.commands.Handle(action, app.documents.Active())
}

// RunScript runs a Lua script against the workspace.
func (app *Application) RunScript(ctx context.Context, path string) error {
	if err := app.plugins.RunFile(ctx, path); err != nil {
		return NewOperationError("run", path, err)
	}
	return nil
}

// Close releases the script host.
func (app *Application) Close() error {
	return app.plugins.Close()
}

// logUI is the UI used when none is configured: prompts are cancelled
// and errors are logged.
type logUI struct {
	logger *logging.Logger
}

func (u *logUI) Prompt(doc *document.Document, title, _ string, _ func(string), onCancel func()) {
	u.logger.WithField("doc", doc.ID()).Warn("no UI to answer %q", title)
	if onCancel != nil {
		onCancel()
	}
}

func (u *logUI) ShowError(msg string) {
	u.logger.Error("%s", msg)
}
