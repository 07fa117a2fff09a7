package main

import (
	"context"
	"fmt"
	"time"

	"viyarschedule/database"

	"github.com/spf13/cobra"
)

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStores(cmd.Context(), false)
			if err != nil {
				return err
			}
			s.close()
			fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop the employees and schedules collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to drop collections without --yes")
			}
			database.InitDB()
			defer database.Disconnect(context.Background())

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			for _, name := range []string{"schedules", "employees"} {
				if err := database.DB().Collection(name).Drop(ctx); err != nil {
					return fmt.Errorf("drop %s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm dropping all data")
	return cmd
}
