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
package config

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "XCBUNDLE"

const (
	KeyProjectPath      = "project_path"
	KeyTargetIdentifier = "target_identifier"
	KeyTargetName       = "target_name"
	KeyProjectObject    = "project_object"
	KeyResourcesPhase   = "resources_phase"
	KeyResourcesDir     = "resources_dir"
	KeyBinDir           = "bin_dir"
	KeyResourceNames    = "resource_names"
	KeyPhaseName        = "phase_name"
	KeyStrict           = "strict"
	KeyBackup           = "backup"
	KeyDryRun           = "dry_run"
)

// Config names the project file and the records of it that get patched.
type Config struct {
	ProjectPath      string   `mapstructure:"project_path"`
	TargetIdentifier string   `mapstructure:"target_identifier"`
	TargetName       string   `mapstructure:"target_name"`
	ProjectObject    string   `mapstructure:"project_object"`
	ResourcesPhase   string   `mapstructure:"resources_phase"`
	ResourcesDir     string   `mapstructure:"resources_dir"`
	BinDir           string   `mapstructure:"bin_dir"`
	ResourceNames    []string `mapstructure:"resource_names"`
	PhaseName        string   `mapstructure:"phase_name"`
	// Strict aborts a run before writing when any step was skipped.
	Strict bool `mapstructure:"strict"`
	// Backup also backs up before adding the permissions phase. The resource
	// bundler always does.
	Backup bool `mapstructure:"backup"`
	DryRun bool `mapstructure:"dry_run"`
}

// Default returns the values the yt-dlp-MAX project was patched with.
func Default() Config {
	return Config{
		ProjectPath:      "/Users/mstrslv/devspace/yt-dlp-MAX/yt-dlp-MAX.xcodeproj/project.pbxproj",
		TargetIdentifier: "F8522F062E588C4300B30F2A",
		TargetName:       "yt-dlp-MAX",
		ProjectObject:    "F8522EFE2E588C4300B30F2A",
		ResourcesPhase:   "F8522F052E588C4300B30F2A",
		ResourcesDir:     "Resources",
		BinDir:           "bin",
		ResourceNames:    []string{"yt-dlp", "ffmpeg", "ffprobe"},
		PhaseName:        "Fix Binary Permissions",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyProjectPath, d.ProjectPath)
	v.SetDefault(KeyTargetIdentifier, d.TargetIdentifier)
	v.SetDefault(KeyTargetName, d.TargetName)
	v.SetDefault(KeyProjectObject, d.ProjectObject)
	v.SetDefault(KeyResourcesPhase, d.ResourcesPhase)
	v.SetDefault(KeyResourcesDir, d.ResourcesDir)
	v.SetDefault(KeyBinDir, d.BinDir)
	v.SetDefault(KeyResourceNames, d.ResourceNames)
	v.SetDefault(KeyPhaseName, d.PhaseName)
	v.SetDefault(KeyStrict, d.Strict)
	v.SetDefault(KeyBackup, d.Backup)
	v.SetDefault(KeyDryRun, d.DryRun)
}

// Load layers defaults, the optional config file, XCBUNDLE_* environment
// variables and whatever flags the caller bound on v, in increasing
// precedence.
func Load(v *viper.Viper, configFile string) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ProjectPath == "" {
		return errors.New("project_path must be set")
	}
	if len(c.ResourceNames) == 0 {
		return errors.New("resource_names must list at least one binary")
	}
	if c.ResourcesDir == "" || c.BinDir == "" {
		return errors.New("resources_dir and bin_dir must be set")
	}
	if strings.TrimSpace(c.PhaseName) == "" {
		return errors.New("phase_name must be set")
	}
	return nil
}

// ProjectDir is the directory holding the .xcodeproj bundle.
func (c Config) ProjectDir() string {
	return filepath.Dir(filepath.Dir(c.ProjectPath))
}

// SourceBinDir is where the bundled binaries live next to the project.
func (c Config) SourceBinDir() string {
	return filepath.Join(c.ProjectDir(), c.ResourcesDir, c.BinDir)
}
