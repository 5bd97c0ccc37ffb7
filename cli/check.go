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
	"github.com/spf13/cobra"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which patches and binaries are in place without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := a.runner()
			if err != nil {
				return err
			}
			cfg := runner.Config()
			out := newPrinter(cmd.OutOrStdout())

			status, err := runner.Check(commandContext(cmd))
			if err != nil {
				return commandError(cfg, err)
			}

			out.Line("Project: %s", status.Path)
			if status.ResourcesPresent {
				out.Ok("%s folder is in the project", cfg.ResourcesDir)
			} else {
				out.Warn("%s folder is not in the project", cfg.ResourcesDir)
			}
			if status.PermissionsPresent {
				out.Ok("'%s' build phase exists", cfg.PhaseName)
			} else {
				out.Warn("'%s' build phase is missing", cfg.PhaseName)
			}
			if status.ValidErr == nil {
				out.Ok("Project reads as an OpenStep property list")
			} else {
				out.Warn("Project does not read as a property list: %v", status.ValidErr)
			}

			out.Line("Binaries in %s:", status.BinDir)
			for _, bin := range status.Binaries {
				switch {
				case !bin.Exists:
					out.Warn("%s: missing", bin.Name)
				case bin.Err != nil:
					out.Warn("%s: %v", bin.Name, bin.Err)
				case !bin.Executable:
					out.Warn("%s: %s, not executable", bin.Name, bin.FileType)
				default:
					out.Ok("%s: %s, executable", bin.Name, bin.FileType)
				}
			}
			return nil
		},
	}
}
