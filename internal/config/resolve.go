package config

// ResolveBuilder returns the effective Sphinx settings for the named builder
// plus the builder passed to sphinx-build. Overrides from the Builders map
// replace base fields; ThemeOptions and Settings merge key-wise with the
// override winning.
//
// The builder defaults to the map key, except "pdf", which builds via the
// latex builder so the generated Makefile can drive pdflatex afterwards.
func (c *Config) ResolveBuilder(name string) (SphinxSection, string) {
	section := c.Sphinx
	builder := name
	if name == "pdf" {
		builder = "latex"
	}

	ov, ok := c.Builders[name]
	if !ok {
		section.ThemeOptions = copyMap(section.ThemeOptions)
		section.Settings = copyMap(section.Settings)
		return section, builder
	}

	if ov.Builder != nil {
		builder = *ov.Builder
	}
	if ov.Docroot != nil {
		section.Docroot = *ov.Docroot
	}
	if ov.Builddir != nil {
		section.Builddir = *ov.Builddir
	}
	if ov.Sourcedir != nil {
		section.Sourcedir = *ov.Sourcedir
	}
	if ov.Confdir != nil {
		section.Confdir = *ov.Confdir
	}
	if ov.Outdir != nil {
		section.Outdir = *ov.Outdir
	}
	if ov.Doctrees != nil {
		section.Doctrees = *ov.Doctrees
	}
	if ov.AllFiles != nil {
		section.AllFiles = *ov.AllFiles
	}
	if ov.FreshEnv != nil {
		section.FreshEnv = *ov.FreshEnv
	}
	if ov.WarningIsError != nil {
		section.WarningIsError = *ov.WarningIsError
	}
	if ov.Quiet != nil {
		section.Quiet = *ov.Quiet
	}
	if ov.Pdflatex != nil {
		section.Pdflatex = *ov.Pdflatex
	}

	section.ThemeOptions = mergeMaps(c.Sphinx.ThemeOptions, ov.ThemeOptions)
	section.Settings = mergeMaps(c.Sphinx.Settings, ov.Settings)
	return section, builder
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func mergeMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
