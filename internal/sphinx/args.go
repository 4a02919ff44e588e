package sphinx

import (
	"sort"

	"github.com/docweave/docweave/internal/config"
)

// BuildArgs assembles the sphinx-build argument vector for the effective
// section. Theme options become -Aname=value pairs, configuration settings
// -Dname=value pairs, both in sorted order so the command line is stable.
func BuildArgs(section config.SphinxSection, builder string, p Paths) []string {
	args := []string{
		"-b", builder,
		"-d", p.Doctrees,
		"-c", p.Confdir,
	}

	if section.AllFiles {
		args = append(args, "-a")
	}
	if section.FreshEnv {
		args = append(args, "-E")
	}
	if section.WarningIsError {
		args = append(args, "-W")
	}
	if section.Quiet {
		args = append(args, "-Q")
	}

	for _, name := range sortedKeys(section.ThemeOptions) {
		args = append(args, "-A"+name+"="+section.ThemeOptions[name])
	}
	for _, name := range sortedKeys(section.Settings) {
		args = append(args, "-D"+name+"="+section.Settings[name])
	}

	return append(args, p.Srcdir, p.Outdir)
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
