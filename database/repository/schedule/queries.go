// File: database/repository/schedule/queries.go
package scheduleRepo

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"viyarschedule/database"
	"viyarschedule/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (r *mongoScheduleRepo) GetByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Schedule, error) {
	return r.find(ctx, bson.M{"employee": employeeID})
}

func (r *mongoScheduleRepo) EmployeesInDepartments(ctx context.Context, departments []string) ([]primitive.ObjectID, error) {
	patterns := departmentPatterns(departments)
	if len(patterns) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.coll.Distinct(ctx, "employee", bson.M{"department": bson.M{"$in": patterns}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch department employees: %w", database.Classify(err))
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *mongoScheduleRepo) GetInRange(ctx context.Context, from, to time.Time, f RangeFilter) ([]models.Schedule, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}

	var conds []bson.M
	if f.NameGiven {
		if f.EmployeeID != nil {
			conds = append(conds, bson.M{"employee": *f.EmployeeID})
		} else {
			// unknown name: a condition that matches nothing
			conds = append(conds, bson.M{"employee": bson.M{"$in": bson.A{}}})
		}
	}
	if patterns := departmentPatterns(f.Departments); len(patterns) > 0 {
		conds = append(conds, bson.M{"department": bson.M{"$in": patterns}})
	}

	switch {
	case len(conds) == 1:
		for k, v := range conds[0] {
			filter[k] = v
		}
	case len(conds) > 1 && f.Mode == MatchAll:
		filter["$and"] = conds
	case len(conds) > 1:
		filter["$or"] = conds
	}
	return r.find(ctx, filter)
}

func (r *mongoScheduleRepo) Departments(ctx context.Context, query string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"department": bson.M{
		"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
		"$ne":    "",
	}}
	raw, err := r.coll.Distinct(ctx, "department", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch departments: %w", database.Classify(err))
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

// departmentPatterns builds anchored case-insensitive regexes: "fin" must not
// match "finance", "Finance" must match "finance".
func departmentPatterns(departments []string) bson.A {
	var patterns bson.A
	for _, d := range departments {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		patterns = append(patterns, primitive.Regex{Pattern: "^" + regexp.QuoteMeta(d) + "$", Options: "i"})
	}
	return patterns
}
