package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/config"
)

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "huectl",
		Short:         "Control Philips Hue lights, groups and scenes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, "config", "c", "", fmt.Sprintf("config file (default %s)", config.DefaultPath()))
	pf.StringVar(&a.flags.bridge, "bridge", "", "bridge address (overrides hue.bridge)")
	pf.StringVar(&a.flags.token, "token", "", "bridge API token (overrides hue.token)")
	pf.StringVarP(&a.flags.output, "output", "o", "", "output format: yaml or json")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		a.lightCommand(),
		a.groupCommand(),
		a.sceneCommand(),
		a.runCommand(),
		a.historyCommand(),
	)
	return root
}

// parseIDs converts numeric identifiers given on the command line
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
