// Package cli implements the repo-summary command line.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/repo-summary/internal/platform/config"
	applog "github.com/janisto/repo-summary/internal/platform/logging"
	githubsvc "github.com/janisto/repo-summary/internal/service/github"
	statssvc "github.com/janisto/repo-summary/internal/service/stats"
)

// App holds shared application state.
type App struct {
	Config    config.Config
	Summaries statssvc.Service
	Version   string
	verbose   bool
}

// NewApp creates a new App from the given configuration.
func NewApp(cfg config.Config, version string) *App {
	return &App{Config: cfg, Version: version}
}

// ensureService creates the summary pipeline if it doesn't exist.
func (a *App) ensureService() {
	if a.Summaries != nil {
		return
	}
	httpClient := githubsvc.NewHTTPClient(context.Background(), a.Config.GitHubToken, a.Config.GitHubTimeout)
	client := githubsvc.NewClient(httpClient,
		githubsvc.WithBaseURL(a.Config.GitHubBaseURL),
		githubsvc.WithMaxPages(a.Config.MaxPages),
		githubsvc.WithUserAgent("repo-summary/"+a.Version),
	)
	a.Summaries = statssvc.NewAggregator(client)
}

// NewRootCommand creates the root cobra command with all subcommands.
func (a *App) NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repo-summary",
		Short: "Summarize the public GitHub repositories of users",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(applog.WithLogger(commandContext(cmd), a.newLogger(cmd.ErrOrStderr())))
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log pipeline progress to stderr")

	rootCmd.AddCommand(a.newSummaryCommand())
	rootCmd.AddCommand(a.newVersionCommand())

	return rootCmd
}

// newLogger writes human-readable logs to w so stdout stays machine-readable.
func (a *App) newLogger(w io.Writer) *zap.Logger {
	lvl := zapcore.WarnLevel
	if a.verbose {
		lvl = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
