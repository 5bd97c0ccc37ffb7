package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/soapywu/xcbundle/config"
	"github.com/soapywu/xcbundle/patch"
	"github.com/soapywu/xcbundle/pbxproj"
)

func main() {
	projectPath := "project.pbxproj"
	project := pbxproj.NewPbxProject(projectPath)
	err := project.Parse()
	if err != nil {
		log.Fatal().Err(err).Msg("parse")
	}
	dumpToFile := func(name string) {
		file, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal().Err(err).Msg("open dump")
		}
		defer file.Close()

		err = project.Dump(file)
		if err != nil {
			log.Fatal().Err(err).Msg("dump")
		}
	}

	cfg := config.Default()
	cfg.ProjectPath = projectPath

	dumpToFile("OriginalProject.json")
	data, err := os.ReadFile(projectPath)
	if err != nil {
		log.Fatal().Err(err).Msg("read")
	}
	var reports []*patch.Report
	if patch.ResourcesPresent(data, &project, cfg) {
		log.Info().Msg("resources already bundled")
	} else {
		reports = append(reports, patch.BundleResources(&project, cfg))
	}
	if patch.PermissionsPresent(data, cfg) {
		log.Info().Msg("permission fix already present")
	} else {
		reports = append(reports, patch.FixPermissions(&project, cfg))
	}
	for _, report := range reports {
		if err := report.Err(); err != nil {
			log.Warn().Err(err).Str("utility", string(report.Utility)).Msg("partially patched")
		}
	}
	dumpToFile("ModifiedProject.json")

	writer := pbxproj.NewPbxWriter(&project)
	if err := pbxproj.Validate(writer.Bytes()); err != nil {
		log.Fatal().Err(err).Msg("validate")
	}
	if err := writer.Write("new" + projectPath); err != nil {
		log.Fatal().Err(err).Msg("write")
	}
}
