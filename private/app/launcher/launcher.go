// Copyright 2026 ETH Zurich
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package launcher runs the admin tools. It sets up the command tree, loads
// the configuration from file, environment and flags, initializes logging
// and serves metrics while a command is running.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/prom"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/app/command"
	libconfig "github.com/netsec-ethz/scion-web/private/config"
	"github.com/netsec-ethz/scion-web/private/env"
)

// Configuration keys used by the launcher. They mirror the TOML layout, the
// environment variables are derived from them (e.g., SCIONWEB_GENERAL_GEN_DIR).
const (
	cfgConfigFile                = "config"
	cfgLogConsoleLevel           = "log.console.level"
	cfgLogConsoleFormat          = "log.console.format"
	cfgLogConsoleStacktraceLevel = "log.console.stacktrace_level"
	cfgGeneralID                 = "general.id"
	cfgGeneralGenDir             = "general.gen_dir"
	cfgMetricsPrometheus         = "metrics.prometheus"

	envPrefix = "scionweb"
)

// AnnotationNoSetup marks commands that run without loading the
// configuration.
const AnnotationNoSetup = "launcher_no_setup"

// GeneralConfig is implemented by configurations with a general section.
type GeneralConfig interface {
	GeneralConfig() *env.General
}

// MetricsConfig is implemented by configurations with a metrics section.
type MetricsConfig interface {
	MetricsConfig() *env.Metrics
}

// Application models an admin tool.
type Application struct {
	// TOMLConfig holds the Go data structure for the application-specific
	// TOML configuration. It is loaded before any command that is not
	// annotated with AnnotationNoSetup runs.
	TOMLConfig libconfig.Config

	// ShortName is the short name of the application. If empty, the
	// executable name is used.
	ShortName string

	// Short is the description shown in the help output.
	Short string

	// Commands creates the sub commands of the application.
	Commands []func(command.Pather) *cobra.Command

	// Registerer is used for the metrics exported by the launcher. If nil,
	// the default registerer is used.
	Registerer prometheus.Registerer

	// Writer receives the command output. If nil, os.Stdout is used.
	Writer io.Writer

	// ErrorWriter specifies where error output should be printed. If nil,
	// os.Stderr is used.
	ErrorWriter io.Writer

	// config contains the Viper configuration KV store.
	config *viper.Viper
}

// Run executes the application with the process arguments. It exits the
// process with a non-zero code if the command fails.
func (a *Application) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(a.getErrorWriter(), "fatal error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// Execute builds the command tree and runs the command selected by args.
func (a *Application) Execute(ctx context.Context, args []string) error {
	executable := filepath.Base(os.Args[0])
	root, err := a.newRoot(executable)
	if err != nil {
		return err
	}
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *Application) newRoot(executable string) (*cobra.Command, error) {
	shortName := a.getShortName(executable)
	root := &cobra.Command{
		Use:           executable,
		Short:         a.Short,
		SilenceErrors: true,
	}
	root.SetErr(a.getErrorWriter())
	if a.Writer != nil {
		root.SetOut(a.Writer)
	}
	root.PersistentFlags().String(cfgConfigFile, "", "Configuration file")
	root.PersistentFlags().String("gen-dir", "", "Root of the generated configuration tree")
	root.PersistentFlags().String("log-level", "", "Console logging level")

	for _, newCmd := range a.Commands {
		root.AddCommand(newCmd(root))
	}
	root.AddCommand(
		noSetup(command.NewSample(root, a.TOMLConfig, libconfig.CtxMap{
			libconfig.ID: executable,
		})),
		noSetup(command.NewVersion(root)),
		noSetup(command.NewGendocs(root)),
	)

	a.config = viper.New()
	a.config.SetEnvPrefix(envPrefix)
	a.config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.config.AutomaticEnv()
	a.config.SetDefault(cfgLogConsoleLevel, log.DefaultConsoleLevel)
	a.config.SetDefault(cfgLogConsoleFormat, "human")
	a.config.SetDefault(cfgLogConsoleStacktraceLevel, log.DefaultStacktraceLevel)
	a.config.SetDefault(cfgGeneralID, executable)
	a.config.SetDefault(cfgGeneralGenDir, env.DefaultGenDir)
	a.config.SetDefault(cfgMetricsPrometheus, "")
	// The flags are registered with viper, the values are only read once
	// they are parsed.
	bindings := map[string]string{
		cfgConfigFile:      cfgConfigFile,
		cfgGeneralGenDir:   "gen-dir",
		cfgLogConsoleLevel: "log-level",
	}
	for key, flag := range bindings {
		if err := a.config.BindPFlag(key, root.PersistentFlags().Lookup(flag)); err != nil {
			return nil, err
		}
	}
	wrapCommands(root, func(run func(*cobra.Command, []string) error) func(
		*cobra.Command, []string) error {

		return func(cmd *cobra.Command, args []string) error {
			return a.executeCommand(cmd, args, shortName, run)
		}
	})
	return root, nil
}

// wrapCommands wraps the RunE of all commands in the tree that need the
// setup.
func wrapCommands(cmd *cobra.Command,
	wrap func(func(*cobra.Command, []string) error) func(*cobra.Command, []string) error) {

	for _, c := range cmd.Commands() {
		wrapCommands(c, wrap)
	}
	if cmd.RunE == nil || cmd.Annotations[AnnotationNoSetup] != "" {
		return
	}
	cmd.RunE = wrap(cmd.RunE)
}

func noSetup(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[AnnotationNoSetup] = "true"
	return cmd
}

func (a *Application) executeCommand(
	cmd *cobra.Command,
	args []string,
	shortName string,
	run func(*cobra.Command, []string) error,
) error {

	// Errors past this point are not caused by the usage.
	cmd.SilenceUsage = true
	if err := a.loadConfig(); err != nil {
		return err
	}
	if err := log.Setup(a.getLogging()); err != nil {
		return serrors.Wrap("initialize logging", err)
	}
	defer log.Flush()
	id := a.config.GetString(cfgGeneralID)
	env.LogAppStarted(shortName, id)
	defer env.LogAppStopped(shortName, id)
	defer log.HandlePanic()

	prom.ExportElementID(id, a.Registerer)
	if err := a.TOMLConfig.Validate(); err != nil {
		return serrors.Wrap("validate config", err)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	runCtx, cancel := context.WithCancel(ctx)
	if m, ok := a.TOMLConfig.(MetricsConfig); ok {
		g.Go(func() error {
			defer log.HandlePanic()
			return m.MetricsConfig().ServePrometheus(runCtx)
		})
	}
	g.Go(func() error {
		defer log.HandlePanic()
		defer cancel()
		cmd.SetContext(runCtx)
		return run(cmd, args)
	})
	return g.Wait()
}

// loadConfig loads the application configuration from the config file, if
// any, and applies the overrides from the environment and the flags.
func (a *Application) loadConfig() error {
	if file := a.config.GetString(cfgConfigFile); file != "" {
		// Load launcher configurations from the same config file as the
		// custom application configuration.
		a.config.SetConfigType("toml")
		a.config.SetConfigFile(file)
		if err := a.config.ReadInConfig(); err != nil {
			return serrors.Wrap("loading generic config from file", err, "file", file)
		}
		if err := libconfig.LoadFile(file, a.TOMLConfig); err != nil {
			return serrors.Wrap("loading config from file", err, "file", file)
		}
	}
	if g, ok := a.TOMLConfig.(GeneralConfig); ok {
		general := g.GeneralConfig()
		general.ID = a.config.GetString(cfgGeneralID)
		general.GenDir = a.config.GetString(cfgGeneralGenDir)
	}
	if m, ok := a.TOMLConfig.(MetricsConfig); ok {
		m.MetricsConfig().Prometheus = a.config.GetString(cfgMetricsPrometheus)
	}
	a.TOMLConfig.InitDefaults()
	return nil
}

func (a *Application) getLogging() log.Config {
	return log.Config{
		Console: log.ConsoleConfig{
			Level:           a.config.GetString(cfgLogConsoleLevel),
			Format:          a.config.GetString(cfgLogConsoleFormat),
			StacktraceLevel: a.config.GetString(cfgLogConsoleStacktraceLevel),
		},
	}
}

func (a *Application) getShortName(executable string) string {
	if a.ShortName != "" {
		return a.ShortName
	}
	return executable
}

func (a *Application) getErrorWriter() io.Writer {
	if a.ErrorWriter != nil {
		return a.ErrorWriter
	}
	return os.Stderr
}
