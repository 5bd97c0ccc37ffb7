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
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Utility string

const (
	UtilityBundle      Utility = "bundle"
	UtilityPermissions Utility = "fix-permissions"
)

type StepStatus int

const (
	StepDone StepStatus = iota
	// StepPresent means the step found its change already in place.
	StepPresent
	StepSkipped
)

func (s StepStatus) String() string {
	switch s {
	case StepDone:
		return "done"
	case StepPresent:
		return "present"
	case StepSkipped:
		return "skipped"
	}
	return "unknown"
}

type Step struct {
	Name   string
	Status StepStatus
	Err    error
}

// Report records what one utility run did to the project.
type Report struct {
	Utility Utility
	Path    string
	// Backup is the location of the backup written during the run, if any.
	Backup string
	// AlreadyPresent is set when the idempotency check matched and nothing
	// was attempted.
	AlreadyPresent bool
	Steps          []Step
	Written        bool
	// Diff holds the unified diff of a dry run.
	Diff string
}

func (r *Report) done(name string) {
	r.Steps = append(r.Steps, Step{Name: name, Status: StepDone})
}

func (r *Report) present(name string) {
	r.Steps = append(r.Steps, Step{Name: name, Status: StepPresent})
}

func (r *Report) skip(name string, err error) {
	if err == nil {
		err = errors.New("anchor missing")
	}
	log.Debug().Err(err).Str("utility", string(r.Utility)).Str("step", name).Msg("step skipped")
	r.Steps = append(r.Steps, Step{Name: name, Status: StepSkipped, Err: err})
}

func (r *Report) Skipped() []Step {
	var skipped []Step
	for _, step := range r.Steps {
		if step.Status == StepSkipped {
			skipped = append(skipped, step)
		}
	}
	return skipped
}

// Changed reports whether any step mutated the project.
func (r *Report) Changed() bool {
	for _, step := range r.Steps {
		if step.Status == StepDone {
			return true
		}
	}
	return false
}

func (r *Report) FullyPatched() bool {
	return len(r.Skipped()) == 0
}

// Err aggregates the errors of all skipped steps, or returns nil.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, step := range r.Skipped() {
		result = multierror.Append(result, errors.Wrap(step.Err, step.Name))
	}
	return result.ErrorOrNil()
}
