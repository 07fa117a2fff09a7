package cron

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	memoryRepo "viyarschedule/database/repository/memory"
	"viyarschedule/models"
	"viyarschedule/services/importer"
	"viyarschedule/services/tasks"
)

func TestHandleImportTask(t *testing.T) {
	store := memoryRepo.NewStore()
	imp := importer.New(importer.Dependencies{
		Employees: store.Employees(),
		Schedules: store.Schedules(),
	}, importer.Options{})

	dir := filepath.Join(t.TempDir(), "b1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	task, _, err := tasks.NewImportTask(models.ImportTaskPayload{BatchID: "b1", Paths: []string{path}})
	require.NoError(t, err)

	h := handleImportTask(imp, zap.NewNop())
	require.NoError(t, h(context.Background(), task))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestHandleImportTask_SkipsRetryOnBadPayload(t *testing.T) {
	h := handleImportTask(nil, zap.NewNop())
	err := h(context.Background(), asynq.NewTask(tasks.TypeRosterImport, []byte("{}")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	task, _, err := tasks.NewImportTask(models.ImportTaskPayload{BatchID: "b2", Paths: []string{"/does/not/exist.xlsx"}})
	require.NoError(t, err)
	err = h(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
