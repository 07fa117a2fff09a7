package main

import (
	"fmt"
	"os"
	"path/filepath"

	"viyarschedule/config"
	"viyarschedule/cron"
	"viyarschedule/models"
	"viyarschedule/services/tasks"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newEnqueueCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "enqueue [files...]",
		Short: "Hand spreadsheets to the running service's import worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.RedisEnabled() {
				return fmt.Errorf("REDIS_ADDR is not set")
			}
			paths, err := sourcePaths(args, dir)
			if err != nil {
				return err
			}
			files, err := readSources(paths)
			if err != nil {
				return err
			}

			batchID := uuid.NewString()
			target := filepath.Join(config.AppConfig.UploadDir, batchID)
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			payload := models.ImportTaskPayload{BatchID: batchID}
			for _, f := range files {
				p := filepath.Join(target, f.Name)
				if err := os.WriteFile(p, f.Data, 0o644); err != nil {
					return err
				}
				payload.Paths = append(payload.Paths, p)
			}

			q := tasks.NewQueue(cron.RedisOpt())
			defer q.Close()
			if err := q.Enqueue(cmd.Context(), payload); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), payload)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Input directory (default INPUT_DIR)")
	return cmd
}
