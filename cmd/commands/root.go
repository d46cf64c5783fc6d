package commands

import (
	cfg "github.com/CaCaBlocker/nve-smart-contract/cmd/config"
	"github.com/spf13/cobra"
	tmcfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/cli"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
	"os"
)

var (
	config = cfg.DefaultConfig()
	logger = log.NewTMLogger(log.NewSyncWriter(os.Stdout))
)

// RootCmd is the entry of the nve governance tool.
var RootCmd = &cobra.Command{
	Use:   "nve",
	Short: "NVE DAO governance engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == VersionCmd.Name() {
			return nil
		}

		var err error
		config.RootDir = viperHomeDir(cmd)
		config.Config.SetRoot(config.RootDir)
		tmcfg.EnsureRoot(config.RootDir)

		logger, err = tmflags.ParseLogLevel(config.LogLevel, logger, tmcfg.DefaultLogLevel)
		if err != nil {
			return err
		}
		logger = logger.With("module", "main")
		return nil
	},
}

func viperHomeDir(cmd *cobra.Command) string {
	home, err := cmd.Flags().GetString(cli.HomeFlag)
	if err != nil || home == "" {
		return config.RootDir
	}
	return home
}
