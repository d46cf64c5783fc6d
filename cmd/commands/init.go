package commands

import (
	"github.com/CaCaBlocker/nve-smart-contract/genesis"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
	"path/filepath"
)

var nveChainID = "mainnet"

// NewInitFilesCmd initializes the home directory with a default genesis
// app state.
func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the governance home directory",
		RunE:  initFiles,
	}
	cmd.Flags().StringVar(
		&nveChainID,
		"chain_id",
		nveChainID,
		"the id of chain to generate (e.g. mainnet, testnet, devnet and others)")
	return cmd
}

func initFiles(cmd *cobra.Command, args []string) error {
	config.ChainID = nveChainID

	genFile := filepath.Join(config.RootDir, "config", "genesis_app_state.json")
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis app state file", "path", genFile)
		return nil
	}

	genAppState := genesis.DefaultGenesisAppState()
	bz, err := genAppState.Encode()
	if err != nil {
		return err
	}
	if err := tmos.EnsureDir(filepath.Dir(genFile), 0700); err != nil {
		return err
	}
	if err := tmos.WriteFile(genFile, bz, 0644); err != nil {
		return err
	}

	logger.Info("Generated genesis app state file", "path", genFile, "chain_id", config.ChainID)
	return nil
}
