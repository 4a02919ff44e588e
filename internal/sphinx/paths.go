package sphinx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/errors"
)

// Paths holds the resolved directory layout for one build.
//
// Builddir and Srcdir live under Docroot; Confdir defaults to Srcdir, Outdir
// to Builddir/<builder>, Doctrees to Builddir/doctrees. Explicitly configured
// confdir/outdir/doctrees values are taken as given, not re-rooted.
type Paths struct {
	Docroot  string
	Builddir string
	Srcdir   string
	Confdir  string
	Outdir   string
	Doctrees string
}

// Resolve computes the directory layout for builder from the effective
// section. The documentation root and source directory must exist.
func Resolve(section config.SphinxSection, builder string) (Paths, error) {
	docroot := section.Docroot
	if _, err := os.Stat(docroot); err != nil {
		return Paths{}, errors.New(errors.CategoryConfig, errors.SeverityFatal,
			fmt.Sprintf("documentation root (%s) does not exist", docroot))
	}

	builddir := filepath.Join(docroot, section.Builddir)
	srcdir := filepath.Join(docroot, section.Sourcedir)
	if _, err := os.Stat(srcdir); err != nil {
		return Paths{}, errors.New(errors.CategoryConfig, errors.SeverityFatal,
			fmt.Sprintf("source file dir (%s) does not exist", srcdir))
	}

	confdir := section.Confdir
	if confdir == "" {
		confdir = srcdir
	}
	outdir := section.Outdir
	if outdir == "" {
		outdir = filepath.Join(builddir, builder)
	}
	doctrees := section.Doctrees
	if doctrees == "" {
		doctrees = filepath.Join(builddir, "doctrees")
	}

	return Paths{
		Docroot:  docroot,
		Builddir: builddir,
		Srcdir:   srcdir,
		Confdir:  confdir,
		Outdir:   outdir,
		Doctrees: doctrees,
	}, nil
}

// Ensure creates the writable directories of the layout.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.Builddir, p.Outdir, p.Doctrees} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem,
				fmt.Sprintf("failed to create build directory %s", dir))
		}
	}
	return nil
}
