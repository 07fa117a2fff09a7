package cron

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"viyarschedule/config"
	"viyarschedule/services/importer"
	"viyarschedule/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection for the import queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisImportQueueDB,
	}
}

// InitImportWorker starts the queued-import worker. It processes one import
// at a time.
func InitImportWorker(imp *importer.Importer, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				tasks.ImportQueue: 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRosterImport, handleImportTask(imp, logger))

	go func() {
		logger.Info("starting import worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("import worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("import worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleImportTask(imp *importer.Importer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseImportTask(task)
		if err != nil {
			logger.Error("dropping import task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		log := logger.With(zap.String("batch", p.BatchID))

		var files []importer.SourceFile
		for _, path := range p.Paths {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warn("queued file unreadable", zap.String("path", path), zap.Error(err))
				continue
			}
			files = append(files, importer.SourceFile{Name: filepath.Base(path), Data: data})
		}
		if len(files) == 0 {
			return fmt.Errorf("batch %s: no readable files: %w", p.BatchID, asynq.SkipRetry)
		}

		report, err := imp.ImportFilesAs(ctx, p.BatchID, files)
		if err != nil {
			return err
		}
		log.Info("queued import done", zap.Bool("ok", report.OK()), zap.Int("entriesWritten", report.EntriesWritten))

		for _, path := range p.Paths {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Warn("uploaded file not removed", zap.String("path", path), zap.Error(err))
			}
		}
		_ = os.Remove(filepath.Dir(p.Paths[0]))
		return nil
	}
}
