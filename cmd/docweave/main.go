// Command docweave builds Sphinx documentation projects and maintains the
// script-generated output embedded in their sources.
package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/docweave/docweave/cmd/docweave/commands"
	"github.com/docweave/docweave/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("docweave"),
		kong.Description("Documentation build glue: Sphinx builds, script-output rendering, source checks and live preview."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Full()},
	)
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{Logger: slog.Default()}))
}
