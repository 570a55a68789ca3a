package cli

import (
	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/lua"
)

func (a *App) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Run a Lua script against the bridge",
		Long: `Run a Lua script with the hue and log modules preloaded.

  local hue = require("hue")
  local lamp = hue.light(1)
  lamp:on():set_bri(200):push()`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.transport()
			if err != nil {
				return err
			}
			rt := lua.NewRuntime(t)
			defer rt.Close()
			return rt.RunFile(cmd.Context(), args[0])
		},
	}
}
