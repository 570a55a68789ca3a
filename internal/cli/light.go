package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/hue"
)

func (a *App) lightCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "light",
		Short: "List and control lights",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every light",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.transport()
				if err != nil {
					return err
				}
				all, err := hue.ListLights(cmd.Context(), t)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), lightViews(slices.Collect(maps.Values(all))))
			},
		},
		&cobra.Command{
			Use:   "get ID...",
			Short: "Show the given lights",
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
				var found []*hue.Light
				for _, id := range ids {
					light, err := hue.GetLight(cmd.Context(), t, id)
					if err != nil {
						return err
					}
					found = append(found, light)
				}
				return a.render(cmd.OutOrStdout(), lightViews(found))
			},
		},
		a.lightPowerCommand(true),
		a.lightPowerCommand(false),
		a.lightSetCommand(),
		&cobra.Command{
			Use:   "rename ID NAME",
			Short: "Rename a light",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args[:1])
				if err != nil {
					return err
				}
				t, err := a.transport()
				if err != nil {
					return err
				}
				light, err := hue.GetLight(cmd.Context(), t, ids[0])
				if err != nil {
					return err
				}
				light, err = light.Rename(cmd.Context(), t, args[1])
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), lightViews([]*hue.Light{light}))
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Remove a light from the bridge",
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
				light, err := hue.GetLight(cmd.Context(), t, ids[0])
				if err != nil {
					return err
				}
				if err := light.Delete(cmd.Context(), t); err != nil {
					return err
				}
				zerolog.Ctx(cmd.Context()).Info().Int("light", ids[0]).Msg("Light deleted")
				return nil
			},
		},
	)
	return cmd
}

// lightPowerCommand builds "light on" and "light off". Without IDs every light is switched.
// The first failure stops the run; lights already switched are still printed.
func (a *App) lightPowerCommand(on bool) *cobra.Command {
	use, short := "off [ID...]", "Turn lights off"
	if on {
		use, short = "on [ID...]", "Turn lights on"
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

			var switched []*hue.Light
			if len(ids) == 0 {
				switched, err = hue.SetAllLightsPower(cmd.Context(), t, on)
			} else {
				switched, err = hue.SetLightsPower(cmd.Context(), t, ids, on)
			}
			if len(switched) > 0 {
				if rerr := a.render(cmd.OutOrStdout(), lightViews(switched)); rerr != nil && err == nil {
					err = rerr
				}
			}
			return err
		},
	}
}

// stateFlags are the state attributes settable from the command line
type stateFlags struct {
	on         bool
	bri        uint8
	hue        uint16
	sat        uint8
	ct         uint16
	xy         string
	alert      string
	effect     string
	transition uint16
}

func (f *stateFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.on, "on", false, "power (--on=false turns off)")
	fl.Uint8Var(&f.bri, "bri", 0, "brightness 1-254")
	fl.Uint16Var(&f.hue, "hue", 0, "hue 0-65535 (colour lights only)")
	fl.Uint8Var(&f.sat, "sat", 0, "saturation 0-254 (colour lights only)")
	fl.Uint16Var(&f.ct, "ct", 0, "colour temperature in mirek (CT lights only)")
	fl.StringVar(&f.xy, "xy", "", "CIE coordinates as X,Y (colour lights only)")
	fl.StringVar(&f.alert, "alert", "", "none, select or lselect")
	fl.StringVar(&f.effect, "effect", "", "none or colorloop")
	fl.Uint16Var(&f.transition, "transition", 0, "transition time in steps of 100ms")
}

// apply stages every flag the user gave onto s. Colour channels a lamp does not have are dropped.
func (f *stateFlags) apply(cmd *cobra.Command, s *hue.State) error {
	changed := cmd.Flags().Changed
	if changed("on") {
		s.SetOn(f.on)
	}
	if changed("bri") {
		s.SetBri(f.bri)
	}
	if changed("hue") {
		s.SetHue(f.hue)
	}
	if changed("sat") {
		s.SetSat(f.sat)
	}
	if changed("ct") {
		s.SetCT(f.ct)
	}
	if changed("xy") {
		xy, err := parseXY(f.xy)
		if err != nil {
			return err
		}
		s.SetXY(xy)
	}
	if changed("alert") {
		s.SetAlert(f.alert)
	}
	if changed("effect") {
		s.SetEffect(f.effect)
	}
	if changed("transition") {
		s.SetTransitionTime(f.transition)
	}
	return nil
}

func parseXY(v string) ([2]float32, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return [2]float32{}, fmt.Errorf("invalid xy %q (want X,Y)", v)
	}
	var xy [2]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return [2]float32{}, fmt.Errorf("invalid xy %q: %w", v, err)
		}
		xy[i] = float32(f)
	}
	return xy, nil
}

func (a *App) lightSetCommand() *cobra.Command {
	var flags stateFlags
	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Change the state of a light",
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
			light, err := hue.GetLight(cmd.Context(), t, ids[0])
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &light.State); err != nil {
				return err
			}
			light, err = light.PushState(cmd.Context(), t)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), lightViews([]*hue.Light{light}))
		},
	}
	flags.register(cmd)
	return cmd
}
