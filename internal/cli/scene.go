package cli

import (
	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/hue"
)

func (a *App) sceneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "List and recall scenes",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every scene",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.transport()
				if err != nil {
					return err
				}
				all, err := hue.ListScenes(cmd.Context(), t)
				if err != nil {
					return err
				}
				out := make(map[string]any, len(all))
				for id, scene := range all {
					out[id] = sceneView(scene)
				}
				return a.render(cmd.OutOrStdout(), out)
			},
		},
		&cobra.Command{
			Use:   "get ID...",
			Short: "Show the given scenes",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.transport()
				if err != nil {
					return err
				}
				out := make(map[string]any, len(args))
				for _, id := range args {
					scene, err := hue.GetScene(cmd.Context(), t, id)
					if err != nil {
						return err
					}
					out[id] = sceneView(scene)
				}
				return a.render(cmd.OutOrStdout(), out)
			},
		},
		&cobra.Command{
			Use:   "on ID",
			Short: "Recall a scene",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.transport()
				if err != nil {
					return err
				}
				scene, err := hue.GetScene(cmd.Context(), t, args[0])
				if err != nil {
					return err
				}
				return scene.Activate(cmd.Context(), t)
			},
		},
	)
	return cmd
}
