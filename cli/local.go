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
	"github.com/soapywu/xcbundle/patch"
	"github.com/spf13/cobra"
)

func (a *app) localPermissionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-perms-local",
		Short: "Mark the binaries in the source Resources/bin folder executable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())

			changed, err := patch.MakeExecutable(cfg.SourceBinDir(), cfg.ResourceNames)
			for _, name := range changed {
				out.Ok("Made %s executable", name)
			}
			if err != nil {
				return err
			}
			if len(changed) == 0 {
				out.Ok("All binaries in %s are already executable", cfg.SourceBinDir())
			}
			return nil
		},
	}
}
