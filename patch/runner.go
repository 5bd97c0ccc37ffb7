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
package patch

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog/log"
	"github.com/soapywu/xcbundle/config"
	"github.com/soapywu/xcbundle/pbxproj"
)

var (
	ErrProjectNotFound = errors.New("project.pbxproj not found")
	ErrStrict          = errors.New("project only partially patched")
)

// Storage is what the runner needs from the project file location.
type Storage interface {
	Exists(ctx context.Context, location string) (bool, error)
	Load(ctx context.Context, location string) ([]byte, error)
	Backup(ctx context.Context, location string, data []byte) (string, error)
	Save(ctx context.Context, location string, data []byte) error
}

type Runner struct {
	storage Storage
	cfg     config.Config
}

func NewRunner(storage Storage, cfg config.Config) *Runner {
	return &Runner{storage: storage, cfg: cfg}
}

func (r *Runner) Config() config.Config {
	return r.cfg
}

// BundleResources runs the resource bundler against the configured project.
// The original bytes are always backed up first.
func (r *Runner) BundleResources(ctx context.Context) (*Report, error) {
	return r.run(ctx, UtilityBundle, true,
		func(data []byte, project *pbxproj.PbxProject) bool {
			return ResourcesPresent(data, project, r.cfg)
		},
		func(project *pbxproj.PbxProject) *Report {
			return BundleResources(project, r.cfg)
		})
}

// FixPermissions runs the permission fix injector against the configured
// project.
func (r *Runner) FixPermissions(ctx context.Context) (*Report, error) {
	return r.run(ctx, UtilityPermissions, r.cfg.Backup,
		func(data []byte, _ *pbxproj.PbxProject) bool {
			return PermissionsPresent(data, r.cfg)
		},
		func(project *pbxproj.PbxProject) *Report {
			return FixPermissions(project, r.cfg)
		})
}

// Apply bundles the resources and then adds the permissions phase. Each
// utility reads the file afresh.
func (r *Runner) Apply(ctx context.Context) ([]*Report, error) {
	var reports []*Report
	for _, run := range []func(context.Context) (*Report, error){r.BundleResources, r.FixPermissions} {
		report, err := run(ctx)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func (r *Runner) load(ctx context.Context) ([]byte, error) {
	location := r.cfg.ProjectPath
	ok, err := r.storage.Exists(ctx, location)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrProjectNotFound, "at %s", location)
	}
	return r.storage.Load(ctx, location)
}

func (r *Runner) parse(data []byte) (*pbxproj.PbxProject, error) {
	project := pbxproj.NewPbxProject(r.cfg.ProjectPath)
	if err := project.ParseBytes(data); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *Runner) run(
	ctx context.Context,
	utility Utility,
	backup bool,
	present func([]byte, *pbxproj.PbxProject) bool,
	apply func(*pbxproj.PbxProject) *Report,
) (*Report, error) {
	location := r.cfg.ProjectPath
	data, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Utility: utility, Path: location}
	if backup && !r.cfg.DryRun {
		if report.Backup, err = r.storage.Backup(ctx, location, data); err != nil {
			return report, err
		}
	}

	project, err := r.parse(data)
	if err != nil {
		return report, err
	}
	if present(data, project) {
		report.AlreadyPresent = true
		return report, nil
	}

	applied := apply(project)
	report.Steps = applied.Steps
	if r.cfg.Strict {
		if stepErr := report.Err(); stepErr != nil {
			return report, multierror.Append(errors.Wrap(ErrStrict, string(utility)), stepErr)
		}
	}
	if !report.Changed() {
		log.Debug().Str("utility", string(utility)).Msg("nothing to write")
		return report, nil
	}

	out := pbxproj.NewPbxWriter(project).Bytes()
	if err := pbxproj.Validate(out); err != nil {
		return report, errors.Wrap(err, "refusing to write")
	}

	if r.cfg.DryRun {
		report.Diff, err = UnifiedDiff(location, data, out)
		return report, err
	}
	if err := r.storage.Save(ctx, location, out); err != nil {
		return report, err
	}
	report.Written = true
	return report, nil
}

// UnifiedDiff renders the change from before to after.
func UnifiedDiff(location string, before, after []byte) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: location,
		ToFile:   location + " (patched)",
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrap(err, "diff")
	}
	return diff, nil
}

// Status is the read-only view the check command prints.
type Status struct {
	Path               string
	ResourcesPresent   bool
	PermissionsPresent bool
	ValidErr           error
	BinDir             string
	Binaries           []BinaryStatus
}

func (r *Runner) Check(ctx context.Context) (*Status, error) {
	data, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	project, err := r.parse(data)
	if err != nil {
		return nil, err
	}
	return &Status{
		Path:               r.cfg.ProjectPath,
		ResourcesPresent:   ResourcesPresent(data, project, r.cfg),
		PermissionsPresent: PermissionsPresent(data, r.cfg),
		ValidErr:           pbxproj.Validate(data),
		BinDir:             r.cfg.SourceBinDir(),
		Binaries:           InspectBinaries(r.cfg.SourceBinDir(), r.cfg.ResourceNames),
	}, nil
}

// Project loads and parses the configured project without changing it.
func (r *Runner) Project(ctx context.Context) (*pbxproj.PbxProject, error) {
	data, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return r.parse(data)
}
