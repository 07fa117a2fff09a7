// File: database/repository/employee/crud.go
package employeeRepo

import (
	"context"
	"fmt"
	"time"

	"viyarschedule/database"
	"viyarschedule/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoEmployeeRepo) FindOrCreate(ctx context.Context, name, position string) (*models.Employee, error) {
	emp, err := r.findOrCreate(ctx, name, position)
	// two upserts racing on the unique name index: the loser retries and finds the winner
	if mongo.IsDuplicateKeyError(err) {
		emp, err = r.findOrCreate(ctx, name, position)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employee %q: %w", name, database.Classify(err))
	}
	return emp, nil
}

func (r *mongoEmployeeRepo) findOrCreate(ctx context.Context, name, position string) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"position":  position,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"department":  "",
			"dateOfBirth": models.PlaceholderDate,
			"hireDate":    models.PlaceholderDate,
			"createdAt":   now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var emp models.Employee
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *mongoEmployeeRepo) GetByName(ctx context.Context, name string) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var emp models.Employee
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&emp); err != nil {
		return nil, fmt.Errorf("failed to fetch employee %q: %w", name, database.Classify(err))
	}
	return &emp, nil
}

func (r *mongoEmployeeRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", database.Classify(err))
	}
	defer cursor.Close(ctx)

	var employees []models.Employee
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("error decoding employees: %w", database.Classify(err))
	}
	return employees, nil
}
