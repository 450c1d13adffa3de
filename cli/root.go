package cli

import (
	"fmt"
	"os"

	clirundashboard "github.com/Ethernal-Tech/bridge-transparency/cli/rundashboard"
	clisnapshot "github.com/Ethernal-Tech/bridge-transparency/cli/snapshot"
	cliversion "github.com/Ethernal-Tech/bridge-transparency/cli/version"
	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:   "bridge-transparency",
			Short: "cli commands for the bridge transparency dashboard",
		},
	}

	common.RegisterJSONOutputFlag(rootCommand.baseCmd)
	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		clirundashboard.GetRunDashboardCommand(),
		clisnapshot.GetSnapshotCommand(),
		cliversion.GetVersionCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
