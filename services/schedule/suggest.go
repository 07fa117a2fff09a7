package schedule

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"viyarschedule/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggestCandidates caps the name matches fetched for ranking. The store
// returns matches alphabetically, so the cap must exceed any realistic staff
// list or closer matches would be cut before ranking.
const suggestCandidates = 2000

// Suggest searches employee names and department names partially and
// case-insensitively. Closer matches come first.
func (s *Service) Suggest(ctx context.Context, query string) (*models.Suggestions, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: info is required", ErrInvalidArgument)
	}
	limit := s.opts.SuggestLimit

	emps, err := s.employees.Search(ctx, query, max(limit, suggestCandidates))
	if err != nil {
		return nil, err
	}
	depts, err := s.schedules.Departments(ctx, query)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]models.EmployeeSummary, len(emps))
	names := make([]string, 0, len(emps))
	for _, e := range emps {
		if e.Name == models.UndefinedName {
			continue
		}
		byName[e.Name] = e
		names = append(names, e.Name)
	}

	out := &models.Suggestions{
		Employees:   []models.EmployeeSummary{},
		Departments: []string{},
	}
	for _, name := range rank(query, names, limit) {
		out.Employees = append(out.Employees, byName[name])
	}
	out.Departments = append(out.Departments, rank(query, depts, limit)...)
	return out, nil
}

// rank orders targets by fuzzy distance to query. Targets the fuzzy matcher
// rejects keep their store order after the ranked ones.
func rank(query string, targets []string, limit int) []string {
	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})

	seen := make(map[int]bool, len(ranks))
	out := make([]string, 0, len(targets))
	for _, r := range ranks {
		seen[r.OriginalIndex] = true
		out = append(out, r.Target)
	}
	for i, t := range targets {
		if !seen[i] {
			out = append(out, t)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
