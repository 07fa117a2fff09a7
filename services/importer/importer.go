// File: services/importer/importer.go
package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"viyarschedule/models"
	"viyarschedule/services/archive"
	"viyarschedule/services/intermediate"
	"viyarschedule/services/normalize"
	"viyarschedule/services/roster"
	"viyarschedule/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReplaceScope selects what an import removes before writing.
type ReplaceScope string

const (
	// ReplaceDay deletes every stored entry on any date the batch covers.
	ReplaceDay ReplaceScope = "day"
	// ReplaceNone only upserts; entries of employees missing from the batch survive.
	ReplaceNone ReplaceScope = "none"
)

// ParseReplaceScope maps a config value onto a scope, defaulting to ReplaceDay.
func ParseReplaceScope(v string) ReplaceScope {
	if strings.EqualFold(strings.TrimSpace(v), string(ReplaceNone)) {
		return ReplaceNone
	}
	return ReplaceDay
}

// ScheduleWriter is the part of the schedule repository an import writes through.
type ScheduleWriter interface {
	DeleteByDates(ctx context.Context, dates []time.Time) (int64, error)
	Upsert(ctx context.Context, entry models.Schedule) error
}

// Invalidator drops cached query results after an import changed the store.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// SourceFile is one uploaded spreadsheet.
type SourceFile struct {
	Name string
	Data []byte
}

// Options tunes an Importer.
type Options struct {
	ReplaceScope ReplaceScope
	Workers      int
}

// Dependencies are the collaborators of an Importer. Employees, Schedules and
// Decoder are required; the rest are optional.
type Dependencies struct {
	Employees normalize.EmployeeStore
	Schedules ScheduleWriter
	Decoder   *roster.Decoder
	Artifacts *intermediate.ArtifactWriter
	Archive   archive.Archiver
	Cache     Invalidator
	Lock      Locker
	Logger    *zap.Logger
}

// Importer runs the file pipeline and the reconciling upsert.
type Importer struct {
	resolver  *normalize.Resolver
	schedules ScheduleWriter
	decoder   *roster.Decoder
	artifacts *intermediate.ArtifactWriter
	archive   archive.Archiver
	cache     Invalidator
	lock      Locker
	opts      Options
	logger    *zap.Logger
}

// New wires an Importer.
func New(deps Dependencies, opts Options) *Importer {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.ReplaceScope == "" {
		opts.ReplaceScope = ReplaceDay
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Lock == nil {
		deps.Lock = NewMutexLocker()
	}
	if deps.Decoder == nil {
		deps.Decoder = roster.NewDecoder(roster.DefaultLayout(), deps.Logger)
	}
	return &Importer{
		resolver:  normalize.NewResolver(deps.Employees),
		schedules: deps.Schedules,
		decoder:   deps.Decoder,
		artifacts: deps.Artifacts,
		archive:   deps.Archive,
		cache:     deps.Cache,
		lock:      deps.Lock,
		opts:      opts,
		logger:    deps.Logger,
	}
}

// ImportFiles imports each file as its own batch. A failing file is recorded
// and the next one is still attempted.
func (im *Importer) ImportFiles(ctx context.Context, files []SourceFile) (*models.ImportReport, error) {
	return im.ImportFilesAs(ctx, uuid.NewString(), files)
}

// ImportFilesAs is ImportFiles with a caller-chosen batch ID.
func (im *Importer) ImportFilesAs(ctx context.Context, batchID string, files []SourceFile) (*models.ImportReport, error) {
	release, err := im.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	report := newReport(batchID)
	log := im.logger.With(zap.String("batch", batchID))
	log.Info("import started", zap.Int("files", len(files)))

	for _, f := range files {
		res := im.importFile(ctx, log, f, report)
		report.Files = append(report.Files, res)
		if res.OK {
			utils.FilesProcessed.WithLabelValues("ok").Inc()
		} else {
			utils.FilesProcessed.WithLabelValues("failed").Inc()
			report.Skipped = append(report.Skipped, models.SkipRecord{
				File:   f.Name,
				Reason: models.SkipFileFailed,
				Detail: res.Error,
			})
		}
	}
	im.finish(ctx, log, report)
	return report, nil
}

// ImportRoster reconciles an already decoded batch, e.g. a replayed
// intermediate artifact.
func (im *Importer) ImportRoster(ctx context.Context, source string, batch models.Roster) (*models.ImportReport, error) {
	release, err := im.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	report := newReport(uuid.NewString())
	log := im.logger.With(zap.String("batch", report.BatchID))
	res := models.FileResult{File: source, Employees: len(batch.Employees)}
	if err := im.reconcile(ctx, log, source, batch, report); err != nil {
		res.Error = err.Error()
	} else {
		res.OK = true
	}
	report.Files = append(report.Files, res)
	im.finish(ctx, log, report)
	if !res.OK {
		return report, fmt.Errorf("import %s: %s", source, res.Error)
	}
	return report, nil
}

func (im *Importer) importFile(ctx context.Context, log *zap.Logger, f SourceFile, report *models.ImportReport) models.FileResult {
	res := models.FileResult{File: f.Name}
	log = log.With(zap.String("file", f.Name))

	sheets, err := roster.ReadWorkbook(f.Name, f.Data)
	if err != nil {
		log.Warn("file skipped", zap.Error(err))
		res.Error = err.Error()
		return res
	}

	decoded := im.decoder.DecodeWorkbook(sheets)
	for i := range decoded.Skipped {
		decoded.Skipped[i].File = f.Name
		utils.EntriesSkipped.WithLabelValues(decoded.Skipped[i].Reason).Inc()
	}
	report.Skipped = append(report.Skipped, decoded.Skipped...)
	res.Sheets = len(decoded.Sheets)

	ok := 0
	used := make(map[string]bool)
	for _, s := range decoded.Sheets {
		if s.Err == nil {
			ok++
			im.writeArtifacts(log, f.Name, s, used)
		}
	}
	if ok == 0 {
		res.Error = "no sheet could be decoded"
		log.Warn("file skipped", zap.String("reason", res.Error))
		return res
	}

	if im.archive != nil {
		url, err := im.archive.Archive(ctx, report.BatchID, f.Name, f.Data)
		if err != nil {
			log.Warn("source archive failed", zap.Error(err))
		}
		res.Archive = url
	}

	batch := decoded.Roster()
	res.Employees = len(batch.Employees)
	if err := im.reconcile(ctx, log, f.Name, batch, report); err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	return res
}

// writeArtifacts names artifacts after the sheet's month; a second sheet of
// the same month gets the sheet name appended.
func (im *Importer) writeArtifacts(log *zap.Logger, file string, s roster.SheetResult, used map[string]bool) {
	if im.artifacts == nil {
		return
	}
	base := roster.MonthName(s.Month)
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	if used[base] {
		base += "_" + s.Name
	}
	used[base] = true
	txt, js, err := im.artifacts.Write(base, s.Roster)
	if err != nil {
		log.Warn("intermediate artifacts not written", zap.String("sheet", s.Name), zap.Error(err))
		return
	}
	log.Debug("intermediate artifacts written", zap.String("txt", txt), zap.String("json", js))
}

func (im *Importer) finish(ctx context.Context, log *zap.Logger, report *models.ImportReport) {
	report.FinishedAt = time.Now().UTC()
	utils.ImportDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	if im.cache != nil && (report.EntriesWritten > 0 || report.EntriesDeleted > 0) {
		if err := im.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
			log.Warn("query cache not invalidated", zap.Error(err))
		}
	}
	log.Info("import finished",
		zap.Int("files", len(report.Files)),
		zap.Int("datesReplaced", report.DatesReplaced),
		zap.Int64("entriesDeleted", report.EntriesDeleted),
		zap.Int("entriesWritten", report.EntriesWritten),
		zap.Int("entriesFailed", report.EntriesFailed),
		zap.Int("skipped", len(report.Skipped)))
}

func newReport(batchID string) *models.ImportReport {
	return &models.ImportReport{BatchID: batchID, StartedAt: time.Now().UTC()}
}
