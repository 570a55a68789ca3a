package cli

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/hue"
)

func (a *App) groupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "List and control groups",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every group",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.transport()
				if err != nil {
					return err
				}
				all, err := hue.ListGroups(cmd.Context(), t)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), groupViews(slices.Collect(maps.Values(all))))
			},
		},
		&cobra.Command{
			Use:   "get ID...",
			Short: "Show the given groups",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				t, err := a.transport()
				if err != nil {
					return err
				}
				var found []*hue.Group
				for _, id := range ids {
					group, err := hue.GetGroup(cmd.Context(), t, id)
					if err != nil {
						return err
					}
					found = append(found, group)
				}
				return a.render(cmd.OutOrStdout(), groupViews(found))
			},
		},
		a.groupPowerCommand(true),
		a.groupPowerCommand(false),
		a.groupCreateCommand(),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Remove a group from the bridge",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				t, err := a.transport()
				if err != nil {
					return err
				}
				if err := hue.DeleteGroup(cmd.Context(), t, ids[0]); err != nil {
					return err
				}
				zerolog.Ctx(cmd.Context()).Info().Int("group", ids[0]).Msg("Group deleted")
				return nil
			},
		},
	)
	return cmd
}

// groupPowerCommand builds "group on" and "group off". Without IDs every group is switched.
func (a *App) groupPowerCommand(on bool) *cobra.Command {
	use, short := "off [ID...]", "Turn groups off"
	if on {
		use, short = "on [ID...]", "Turn groups on"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			t, err := a.transport()
			if err != nil {
				return err
			}

			var switched []*hue.Group
			if len(ids) == 0 {
				switched, err = hue.SetAllGroupsPower(cmd.Context(), t, on)
			} else {
				switched, err = hue.SetGroupsPower(cmd.Context(), t, ids, on)
			}
			if len(switched) > 0 {
				if rerr := a.render(cmd.OutOrStdout(), groupViews(switched)); rerr != nil && err == nil {
					err = rerr
				}
			}
			return err
		},
	}
}

func (a *App) groupCreateCommand() *cobra.Command {
	var (
		lightIDs []int
		typ      string
		class    string
	)
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a group from lights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.transport()
			if err != nil {
				return err
			}
			group, err := hue.CreateGroup(cmd.Context(), t, args[0], lightIDs, typ, class)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), groupViews([]*hue.Group{group}))
		},
	}
	cmd.Flags().IntSliceVar(&lightIDs, "lights", nil, "member light IDs, comma separated")
	cmd.Flags().StringVar(&typ, "type", "LightGroup", "LightGroup, Room, Zone or Entertainment")
	cmd.Flags().StringVar(&class, "class", "", "room class, for example \"Living room\"")
	return cmd
}
