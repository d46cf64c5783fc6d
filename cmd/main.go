package main

import (
	"github.com/CaCaBlocker/nve-smart-contract/cmd/commands"
	"github.com/tendermint/tendermint/libs/cli"
	"os"
	"path/filepath"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.VersionCmd,
	)

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	executor := cli.PrepareBaseCmd(commands.RootCmd, "NVE", filepath.Join(home, ".nve"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
