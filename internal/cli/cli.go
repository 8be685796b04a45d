package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/artifactgrid/internal/app"
	"github.com/specialistvlad/artifactgrid/internal/model"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// usageArgs turns positional argument violations into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// options are the flags shared by every subcommand.
type options struct {
	sourceDir    string
	buildDir     string
	distribution string
	format       string
	logFormat    string
	logLevel     string
	vars         []string
}

// config builds the app configuration: environment first, then flags the
// user actually set, then validation.
func (o *options) config(cmd *cobra.Command, recipePath string) (*app.Config, error) {
	cfg, err := app.ConfigFromEnv()
	if err != nil {
		return nil, usageError(err)
	}
	if recipePath != "" {
		cfg.RecipePath = recipePath
	}

	flags := cmd.Flags()
	set := func(name string, dst *string, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	set("source-dir", &cfg.SourceDir, o.sourceDir)
	set("build-dir", &cfg.BuildDir, o.buildDir)
	set("distribution", &cfg.Distribution, o.distribution)
	set("format", &cfg.Format, o.format)
	set("log-format", &cfg.LogFormat, o.logFormat)
	set("log-level", &cfg.LogLevel, o.logLevel)

	if len(o.vars) > 0 {
		cfg.Vars = make(map[string]string, len(o.vars))
		for _, kv := range o.vars {
			name, value, err := model.ParseVarFlag(kv)
			if err != nil {
				return nil, usageError(err)
			}
			cfg.Vars[name] = value
		}
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("CLI configuration resolved.", "config", config)
	return config, nil
}

func (o *options) newApp(cmd *cobra.Command, recipePath string) (*app.App, error) {
	config, err := o.config(cmd, recipePath)
	if err != nil {
		return nil, err
	}
	return app.NewApp(cmd.OutOrStdout(), cmd.ErrOrStderr(), config), nil
}

func optionalPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// NewRootCommand builds the artifactgrid command tree writing documents to
// outW and logs to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "artifactgrid",
		Short: "artifactgrid describes build artifacts declaratively",
		Long: `artifactgrid evaluates recipe files describing object collections, libraries,
executables and documentation bundles into a build graph with install rules.

Recipe files are *.hcl files found recursively under PATH (default ".", or
$ARTIFACTGRID_RECIPES).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.sourceDir, "source-dir", "", "Directory recipe paths are relative to (default: the recipe directory).")
	pf.StringVar(&opts.buildDir, "build-dir", "", "Build output area (default: user cache directory).")
	pf.StringVar(&opts.distribution, "distribution", "", "Target distribution id such as el6 (default: detected from os-release).")
	pf.StringVarP(&opts.format, "format", "o", "json", "Graph document format. Options: 'json', 'yaml' or 'hcl'.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringArrayVar(&opts.vars, "var", nil, "Set a recipe variable (name=value). Repeatable.")

	root.AddCommand(
		newEvalCommand(opts),
		newInvokeCommand(opts),
		newSchemaCommand(opts),
		newRecipesCommand(opts),
		newStageCommand(opts),
		newDocsCommand(opts),
		newWatchCommand(opts),
	)
	return root
}

func newEvalCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [PATH]",
		Short: "Evaluate recipe files and print the build graph",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, optionalPath(args))
			if err != nil {
				return err
			}
			return a.Eval(cmd.Context())
		},
	}
}

func newInvokeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke RECIPE [--] TOKENS...",
		Short: "Evaluate one recipe invocation given as a token list",
		Long: `Evaluate one recipe invocation given as upper-case keywords followed by their
values, for example:

  artifactgrid invoke static_library NAME mathutil SOURCES a.c b.c

Put "--" before the tokens when a value starts with a dash.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}
			return a.Invoke(cmd.Context(), args[0], args[1:])
		},
	}
}

func newSchemaCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the build graph document",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}
			return a.Schema()
		},
	}
}

func newRecipesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List recipes and their parameters",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}
			return a.Recipes()
		},
	}
}

func newStageCommand(opts *options) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "stage --from DIR --to DIR PATTERN...",
		Short: "Copy files matching glob patterns, skipping unchanged ones",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" || to == "" {
				return &ExitError{Code: 2, Message: "stage requires both --from and --to"}
			}
			a, err := opts.newApp(cmd, "")
			if err != nil {
				return err
			}
			return a.Stage(cmd.Context(), from, to, args)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source root the patterns are relative to.")
	cmd.Flags().StringVar(&to, "to", "", "Destination root.")
	return cmd
}

func newDocsCommand(opts *options) *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "docs [PATH]",
		Short: "Stage and render documentation bundles",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, optionalPath(args))
			if err != nil {
				return err
			}
			return a.Docs(cmd.Context(), names...)
		},
	}
	cmd.Flags().StringArrayVar(&names, "doc", nil, "Only build the named bundle. Repeatable.")
	return cmd
}

func newWatchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [PATH]",
		Short: "Re-evaluate recipe files whenever they change",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, optionalPath(args))
			if err != nil {
				return err
			}
			return a.Watch(cmd.Context())
		},
	}
}

// Execute runs the command tree with args. Errors that are not already an
// ExitError are returned as one with code 1.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return &ExitError{Code: 1, Message: fmt.Sprintf("Error: %v", err)}
	}
	return nil
}
