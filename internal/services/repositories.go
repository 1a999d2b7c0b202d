package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctrack/backend/internal/documents"
	"doctrack/backend/internal/models"
)

// Lookups return apperr NotFound for missing records; uniqueness violations
// come back as apperr Conflict.

type DocumentRepository interface {
	InsertMany(ctx context.Context, docs []*models.Document) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	Replace(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) error
	Search(ctx context.Context, q documents.Query) ([]models.Document, int64, error)
	Recent(ctx context.Context, limit int64) ([]models.Document, error)
	GroupByCategory(ctx context.Context) (map[string][]models.DocumentSummary, error)
	LatestEntryID(ctx context.Context) (string, error)
	All(ctx context.Context) ([]models.Document, error)
}

type ReminderRepository interface {
	InsertMany(ctx context.Context, reminders []*models.Reminder) error
	Upcoming(ctx context.Context, from, to time.Time) ([]models.Reminder, error)
	MarkComplete(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error)
	SyncByDocument(ctx context.Context, documentID primitive.ObjectID, sync models.ReminderSync) (matched, modified int64, err error)
	DeleteByDocument(ctx context.Context, documentID primitive.ObjectID) (int64, error)
}

type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetPermissions(ctx context.Context, id primitive.ObjectID, set models.PermissionSet) (*models.User, error)
	SetDesignationPermissions(ctx context.Context, d models.Designation, set models.PermissionSet) (int64, error)
}

// Transactor runs fn as one atomic unit when the backend supports it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
