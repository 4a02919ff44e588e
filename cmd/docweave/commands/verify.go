package commands

import (
	"fmt"

	"github.com/docweave/docweave/internal/errors"
	"github.com/docweave/docweave/internal/linkcheck"
	"github.com/docweave/docweave/internal/sphinx"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Builder  string `help:"Builder whose output directory is verified (configured default when unset)"`
	External bool   `help:"List external links in the report (they are never fetched)"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	name := v.Builder
	if name == "" {
		name = cfg.Verify.Builder
	}
	section, builder := cfg.ResolveBuilder(name)
	paths, err := sphinx.Resolve(section, builder)
	if err != nil {
		return err
	}

	checker := linkcheck.New(paths.Outdir).WithExternal(v.External || cfg.Verify.External)
	report, err := checker.Run()
	if err != nil {
		return err
	}

	for _, problem := range report.Problems {
		fmt.Printf("%s: %s (%s)\n", problem.Page, problem.Link.URL, problem.Reason)
	}
	if len(report.External) > 0 {
		fmt.Println("External links:")
		for _, u := range report.External {
			fmt.Printf("  %s\n", u)
		}
	}
	fmt.Printf("Verified %d links across %d pages: %d problems\n",
		report.Checked, report.Pages, len(report.Problems))

	if report.HasProblems() {
		return errors.New(errors.CategoryVerify, errors.SeverityError,
			fmt.Sprintf("%d broken references in %s", len(report.Problems), paths.Outdir))
	}
	return nil
}
