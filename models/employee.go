// File: models/employee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaceholderDate fills dateOfBirth/hireDate when the roster does not carry them.
var PlaceholderDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// UndefinedName is what broken upstream rows resolve to; grouped queries drop it.
const UndefinedName = "undefined"

// Employee is the identity record. Name is the natural key.
type Employee struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Position    string             `bson:"position" json:"position"`
	Department  string             `bson:"department,omitempty" json:"department,omitempty"`
	DateOfBirth time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	HireDate    time.Time          `bson:"hireDate" json:"hireDate"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EmployeeSummary is the suggestion-search projection.
type EmployeeSummary struct {
	Name     string `bson:"name" json:"name"`
	Position string `bson:"position" json:"position"`
}
