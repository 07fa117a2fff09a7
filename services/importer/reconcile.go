// File: services/importer/reconcile.go
package importer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"viyarschedule/models"
	"viyarschedule/services/normalize"
	"viyarschedule/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// plannedEmployee is one employee of a batch after normalization. Every
// (employee, date) key appears once; a later occurrence overwrites an earlier one.
type plannedEmployee struct {
	name     string
	position string
	entries  map[time.Time]models.Shift
}

func (p *plannedEmployee) sortedDates() []time.Time {
	dates := make([]time.Time, 0, len(p.entries))
	for d := range p.entries {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// tally collects results from concurrent workers.
type tally struct {
	mu      sync.Mutex
	written int
	failed  int
	skipped []models.SkipRecord
}

func (t *tally) skip(rec models.SkipRecord) {
	t.mu.Lock()
	t.skipped = append(t.skipped, rec)
	t.mu.Unlock()
	utils.EntriesSkipped.WithLabelValues(rec.Reason).Inc()
}

// reconcile brings the store in line with batch: it resolves identities,
// removes the batch's dates (ReplaceDay) and upserts every entry. Only a
// failed date removal is fatal; per-entry failures are recorded.
//
// Cancellation is honoured up to the removal. From the removal on, the
// store calls run detached from ctx so the cleared days are always rewritten;
// each store call keeps its own timeout.
func (im *Importer) reconcile(ctx context.Context, log *zap.Logger, source string, batch models.Roster, report *models.ImportReport) error {
	var t tally
	plan, dates := im.plan(source, batch, &t)
	defer func() {
		report.EntriesWritten += t.written
		report.EntriesFailed += t.failed
		report.Skipped = append(report.Skipped, t.skipped...)
	}()
	if len(plan) == 0 {
		log.Info("batch has no importable entries")
		return nil
	}

	employees := make([]*models.Employee, len(plan))
	im.fanOut(ctx, len(plan), func(ctx context.Context, i int) {
		emp, err := im.resolver.Resolve(ctx, plan[i].name, plan[i].position)
		if err != nil {
			log.Error("employee not resolved", zap.String("employee", plan[i].name), zap.Error(err))
			t.skip(models.SkipRecord{File: source, Employee: plan[i].name, Reason: models.SkipEmployeeFailed, Detail: err.Error()})
			return
		}
		employees[i] = emp
	})
	if !anyResolved(employees) {
		return fmt.Errorf("none of %d employees could be resolved", len(plan))
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("import interrupted before writing: %w", err)
	}
	writeCtx := context.WithoutCancel(ctx)
	if im.opts.ReplaceScope == ReplaceDay {
		deleted, err := im.schedules.DeleteByDates(writeCtx, dates)
		if err != nil {
			return fmt.Errorf("replace %d dates: %w", len(dates), err)
		}
		report.DatesReplaced += len(dates)
		report.EntriesDeleted += deleted
		log.Info("dates cleared", zap.Int("dates", len(dates)), zap.Int64("deleted", deleted))
	}

	// Writes start only after the removal above has finished.
	im.fanOut(writeCtx, len(plan), func(ctx context.Context, i int) {
		emp := employees[i]
		if emp == nil {
			return
		}
		for _, date := range plan[i].sortedDates() {
			shift := plan[i].entries[date]
			err := im.schedules.Upsert(ctx, models.Schedule{
				EmployeeID: emp.ID,
				Date:       date,
				Action:     shift.Action,
				Department: shift.Department,
				Duty:       shift.Duty,
			})
			t.mu.Lock()
			if err != nil {
				t.failed++
			} else {
				t.written++
			}
			t.mu.Unlock()
			if err != nil {
				log.Error("entry not written",
					zap.String("employee", emp.Name),
					zap.Time("date", date),
					zap.Error(err))
				t.skip(models.SkipRecord{
					File:     source,
					Employee: emp.Name,
					Date:     shift.Date,
					Reason:   models.SkipWriteFailed,
					Detail:   err.Error(),
				})
				continue
			}
			utils.EntriesWritten.Inc()
		}
	})

	if ctx.Err() != nil {
		log.Warn("caller went away during writes; batch completed", zap.Int("written", t.written))
	}
	return nil
}

func anyResolved(employees []*models.Employee) bool {
	for _, e := range employees {
		if e != nil {
			return true
		}
	}
	return false
}

// plan normalizes dates, drops invalid ones and collapses duplicate keys.
// It returns the employees in first-seen order and the sorted set of dates.
func (im *Importer) plan(source string, batch models.Roster, t *tally) ([]*plannedEmployee, []time.Time) {
	var (
		order  []*plannedEmployee
		byName = make(map[string]*plannedEmployee)
		dates  = make(map[time.Time]struct{})
	)
	for _, re := range batch.Employees {
		name := strings.TrimSpace(re.Name)
		if name == "" {
			continue
		}
		p, ok := byName[name]
		if !ok {
			p = &plannedEmployee{name: name, entries: make(map[time.Time]models.Shift)}
			byName[name] = p
			order = append(order, p)
		}
		if pos := strings.TrimSpace(re.Position); pos != "" {
			p.position = pos
		}
		for _, shift := range re.Schedule {
			date, err := normalize.ParseDate(shift.Date)
			if err != nil {
				im.logger.Warn("entry skipped: invalid date",
					zap.String("file", source),
					zap.String("employee", name),
					zap.String("date", shift.Date))
				t.skip(models.SkipRecord{File: source, Employee: name, Date: shift.Date, Reason: models.SkipInvalidDate})
				continue
			}
			p.entries[date] = shift
			dates[date] = struct{}{}
		}
	}

	var planned []*plannedEmployee
	for _, p := range order {
		if len(p.entries) > 0 {
			planned = append(planned, p)
		}
	}
	sorted := make([]time.Time, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	return planned, sorted
}

// fanOut runs fn for 0..n-1 on at most opts.Workers goroutines and waits.
func (im *Importer) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.opts.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait()
}
