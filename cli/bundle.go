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
package cli

import (
	"context"

	"github.com/soapywu/xcbundle/patch"
	"github.com/spf13/cobra"
)

func (a *app) bundleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bundle",
		Short: "Add the Resources/bin folder and its binaries to the project",
		Long: `bundle backs up project.pbxproj, then adds folder references for
Resources and Resources/bin, file references for each binary, the groups
holding them and a build file in the target's Copy Bundle Resources phase.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUtility(cmd, (*patch.Runner).BundleResources)
		},
	}
}

func (a *app) permissionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-permissions",
		Short: "Add the build phase that marks bundled binaries executable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUtility(cmd, (*patch.Runner).FixPermissions)
		},
	}
}

func (a *app) runUtility(cmd *cobra.Command, run func(*patch.Runner, context.Context) (*patch.Report, error)) error {
	runner, err := a.runner()
	if err != nil {
		return err
	}
	cfg := runner.Config()
	out := newPrinter(cmd.OutOrStdout())

	report, err := run(runner, commandContext(cmd))
	if report != nil {
		out.Report(report, cfg)
	}
	return commandError(cfg, err)
}
