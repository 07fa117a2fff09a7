package main

import (
	"fmt"
	"path/filepath"

	"viyarschedule/models"
	"viyarschedule/services/intermediate"

	"github.com/spf13/cobra"
)

func newReplayCmd(g *globalFlags) *cobra.Command {
	var (
		workers int
		scope   string
	)
	cmd := &cobra.Command{
		Use:   "replay <artifact.txt|artifact.json>...",
		Short: "Import previously written intermediate artifacts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStores(cmd.Context(), g.dryRun)
			if err != nil {
				return err
			}
			defer s.close()
			imp := newImporter(s, workers, scope)

			var reports []*models.ImportReport
			failed := 0
			for _, path := range args {
				batch, err := intermediate.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				report, err := imp.ImportRoster(cmd.Context(), filepath.Base(path), batch)
				if report == nil {
					return err
				}
				if err != nil {
					failed++
				}
				reports = append(reports, report)
			}
			if err := writeJSON(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d artifacts failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent writers (default IMPORT_WORKERS)")
	cmd.Flags().StringVar(&scope, "replace-scope", "", "day or none (default IMPORT_REPLACE_SCOPE)")
	return cmd
}
