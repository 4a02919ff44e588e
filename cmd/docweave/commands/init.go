package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docweave/docweave/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	name := "documentation"
	if wd, err := os.Getwd(); err == nil {
		name = filepath.Base(wd)
	}

	fmt.Printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, name, i.Force); err != nil {
		return err
	}
	fmt.Println("Initialized successfully. Adjust docroot and sourcedir to match your project.")
	return nil
}
