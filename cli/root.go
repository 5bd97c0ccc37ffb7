/**
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
'License'); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at
http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
'AS IS' BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/
// Package cli wires the patch utilities into the xcbundle command line.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/soapywu/xcbundle/config"
	"github.com/soapywu/xcbundle/patch"
	"github.com/soapywu/xcbundle/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	version    string
	viper      *viper.Viper
	configFile string
	verbose    bool
}

// NewRootCommand builds the xcbundle command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version, viper: viper.New()}

	root := &cobra.Command{
		Use:   "xcbundle",
		Short: "Bundle command line binaries into an Xcode app target",
		Long: `xcbundle patches an Xcode project.pbxproj so the app target copies a
Resources/bin folder of executables into the bundle and restores their
executable bit in a build phase.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.setupLogging(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML config file")
	flags.String("project", "", "path to project.pbxproj")
	flags.String("target", "", "identifier of the native target to patch")
	flags.Bool("strict", false, "abort without writing when any step is skipped")
	flags.Bool("dry-run", false, "print the change as a diff and write nothing")
	flags.BoolVar(&a.verbose, "verbose", false, "debug logging")

	for key, flag := range map[string]string{
		config.KeyProjectPath:      "project",
		config.KeyTargetIdentifier: "target",
		config.KeyStrict:           "strict",
		config.KeyDryRun:           "dry-run",
	} {
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		a.bundleCommand(),
		a.permissionsCommand(),
		a.applyCommand(),
		a.checkCommand(),
		a.dumpCommand(),
		a.localPermissionsCommand(),
	)
	return root
}

// Execute runs the command line with os.Args.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}

func (a *app) setupLogging(cmd *cobra.Command) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339, NoColor: true})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if a.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func (a *app) loadConfig() (config.Config, error) {
	cfg, err := config.Load(a.viper, a.configFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	log.Debug().Str("project", cfg.ProjectPath).Str("target", cfg.TargetIdentifier).Bool("strict", cfg.Strict).Bool("dry_run", cfg.DryRun).Msg("config loaded")
	return cfg, nil
}

func (a *app) runner() (*patch.Runner, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return patch.NewRunner(store.New(), cfg), nil
}

// commandError turns library errors into the messages the command line
// prints after "Error: ".
func commandError(cfg config.Config, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, patch.ErrProjectNotFound) {
		return fmt.Errorf("project.pbxproj not found at %s", cfg.ProjectPath)
	}
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
