package main

import (
	"context"
	"encoding/json"
	"io"

	"viyarschedule/config"
	"viyarschedule/database"
	employeeRepo "viyarschedule/database/repository/employee"
	memoryRepo "viyarschedule/database/repository/memory"
	scheduleRepo "viyarschedule/database/repository/schedule"
	"viyarschedule/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	dryRun bool
	quiet  bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Offline tools for duty-roster imports",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			if g.quiet {
				utils.Logger = zap.NewNop()
				zap.ReplaceGlobals(utils.Logger)
			}
		},
	}
	cmd.PersistentFlags().BoolVar(&g.dryRun, "dry-run", false, "Use an in-memory store instead of MongoDB")
	cmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "Suppress log output")

	cmd.AddCommand(
		newImportCmd(g),
		newReplayCmd(g),
		newDumpCmd(),
		newEnqueueCmd(),
		newIndexesCmd(),
		newResetCmd(),
	)
	return cmd
}

type stores struct {
	employees employeeRepo.EmployeeRepository
	schedules scheduleRepo.ScheduleRepository
	close     func()
}

// openStores returns in-memory repositories for --dry-run, MongoDB otherwise.
func openStores(ctx context.Context, dryRun bool) (*stores, error) {
	if dryRun {
		mem := memoryRepo.NewStore()
		return &stores{employees: mem.Employees(), schedules: mem.Schedules(), close: func() {}}, nil
	}
	database.InitDB()
	db := database.DB()
	s := &stores{
		employees: employeeRepo.NewMongoEmployeeRepo(db, config.AppConfig.StoreTimeout),
		schedules: scheduleRepo.NewMongoScheduleRepo(db, config.AppConfig.StoreTimeout),
		close:     func() { _ = database.Disconnect(context.Background()) },
	}
	if err := s.employees.EnsureIndexes(ctx); err != nil {
		s.close()
		return nil, err
	}
	if err := s.schedules.EnsureIndexes(ctx); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
