package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/docweave/docweave/internal/errors"
)

// Init writes an example configuration file for a new project. The project
// title is derived from projectName unless one already exists at configPath
// and force is false.
func Init(configPath, projectName string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal,
			fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}

	example := Config{
		Version: CurrentVersion,
		Project: ProjectSection{
			Name:  projectName,
			Title: TitleForProject(projectName),
		},
		Sphinx: SphinxSection{
			Docroot:  DefaultDocroot,
			Builddir: DefaultBuilddir,
		},
		Builders: map[string]BuilderOverride{
			"html": {
				ThemeOptions: map[string]string{"show_source": "false"},
			},
			"pdf": {},
		},
		Script: ScriptSection{
			Interpreter: DefaultInterpreter,
			BreakMode:   DefaultBreakMode,
		},
		Scan: ScanSection{
			Pattern: DefaultScanPattern,
			Tool:    DefaultScanTool,
		},
		Preview: PreviewSection{
			Addr:            DefaultPreviewAddr,
			RebuildInterval: "5m",
		},
		Logging: LoggingSection{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to marshal config")
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file")
	}
	return nil
}

// TitleForProject turns a project or directory name into a human-readable
// title: separators become spaces and each word is title-cased.
func TitleForProject(name string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name)
	title := strings.TrimSpace(cases.Title(language.English).String(cleaned))
	if title == "" {
		return "Documentation"
	}
	return title
}
