package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/models"
)

type ReminderRepository struct {
	coll *mongo.Collection
}

func NewReminderRepository(db *mongo.Database) *ReminderRepository {
	return &ReminderRepository{coll: db.Collection(remindersCollection)}
}

func (r *ReminderRepository) InsertMany(ctx context.Context, reminders []*models.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}
	_, err := r.coll.InsertMany(ctx, toInterfaces(reminders))
	return err
}

// upcomingFilter selects open reminders due within [from, to].
func upcomingFilter(from, to time.Time) bson.M {
	return bson.M{
		"submissionDate": bson.M{"$gte": from, "$lte": to},
		"isDeleted":      false,
		"isCompleted":    false,
	}
}

func (r *ReminderRepository) Upcoming(ctx context.Context, from, to time.Time) ([]models.Reminder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submissionDate", Value: 1}})
	cursor, err := r.coll.Find(ctx, upcomingFilter(from, to), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]models.Reminder, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReminderRepository) MarkComplete(ctx context.Context, id primitive.ObjectID) (*models.Reminder, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rem models.Reminder
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isCompleted": true}}, opts).Decode(&rem)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Reminder")
	}
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

func (r *ReminderRepository) SyncByDocument(ctx context.Context, documentID primitive.ObjectID, sync models.ReminderSync) (int64, int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"documentId": documentID}, bson.M{"$set": sync})
	if err != nil {
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (r *ReminderRepository) DeleteByDocument(ctx context.Context, documentID primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"documentId": documentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
