package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func (a *App) historyCommand() *cobra.Command {
	var (
		limit int
		prune bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show writes recently sent to the bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.ledgerErr != nil {
				return a.ledgerErr
			}
			if a.ledger == nil {
				return ErrLedgerDisabled
			}

			if prune && a.cfg.Ledger.RetentionDays > 0 {
				retention := time.Duration(a.cfg.Ledger.RetentionDays) * 24 * time.Hour
				removed, err := a.ledger.DeleteOlderThan(retention)
				if err != nil {
					return err
				}
				zerolog.Ctx(cmd.Context()).Info().Int64("removed", removed).Dur("retention", retention).Msg("Pruned write history")
			}

			entries, err := a.ledger.Recent(limit)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().BoolVar(&prune, "prune", false, "first drop entries older than ledger.retention_days")
	return cmd
}
