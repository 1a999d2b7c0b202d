package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/apperr"
)

func parseID(hex, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid "+what+" ID", "id")
	}
	return oid, nil
}

// asPersistence keeps typed errors as they are and marks anything else as a
// storage failure.
func asPersistence(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Persistence(op, err)
}
