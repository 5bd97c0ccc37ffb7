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
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/soapywu/xcbundle/config"
	"github.com/soapywu/xcbundle/patch"
)

const (
	okGlyph   = "✓"
	warnGlyph = "⚠️ "
)

// printer writes the operator facing status lines.
type printer struct {
	w    io.Writer
	ok   *color.Color
	warn *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:    w,
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
	}
}

func (p *printer) Ok(format string, args ...interface{}) {
	p.ok.Fprint(p.w, okGlyph)
	fmt.Fprintf(p.w, " "+format+"\n", args...)
}

func (p *printer) Warn(format string, args ...interface{}) {
	p.warn.Fprint(p.w, warnGlyph)
	fmt.Fprintf(p.w, " "+format+"\n", args...)
}

func (p *printer) Line(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Report(report *patch.Report, cfg config.Config) {
	if report.Backup != "" {
		p.Ok("Backed up project file to %s", report.Backup)
	}
	if report.AlreadyPresent {
		switch report.Utility {
		case patch.UtilityBundle:
			p.Ok("%s folder appears to already be in the project", cfg.ResourcesDir)
		case patch.UtilityPermissions:
			p.Ok("'%s' build phase already exists", cfg.PhaseName)
		}
		return
	}

	for _, step := range report.Skipped() {
		p.Warn("Skipped %s: %v", step.Name, step.Err)
	}
	if !report.Changed() {
		p.Warn("Nothing was changed")
		return
	}

	if cfg.DryRun {
		fmt.Fprint(p.w, report.Diff)
		p.Warn("Dry run: %s was not written", report.Path)
		return
	}

	switch report.Utility {
	case patch.UtilityBundle:
		p.Ok("Successfully added %s folder to Xcode project", cfg.ResourcesDir)
		p.Warn("Note: You still need to:")
		p.Line("   1. Open the project in Xcode")
		p.Line("   2. Verify %s folder appears in the project navigator", cfg.ResourcesDir)
		p.Line("   3. Check Build Phases → Copy Bundle Resources includes %s folder", cfg.ResourcesDir)
		p.Line("   4. Add the '%s' build phase script", cfg.PhaseName)
	case patch.UtilityPermissions:
		p.Ok("Successfully added '%s' build phase", cfg.PhaseName)
		p.Ok("The build phase will run after copying resources")
		p.Ok("It will ensure %s are executable", patch.HumanList(cfg.ResourceNames))
	}

	if report.FullyPatched() {
		p.Ok("Project fully patched by %s", report.Utility)
	} else {
		p.Warn("Project partially patched by %s: %d step(s) skipped", report.Utility, len(report.Skipped()))
	}
}
