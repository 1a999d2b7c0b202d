package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/documents"
	"doctrack/backend/internal/models"
)

// DocumentRepository stores document records in the files collection.
type DocumentRepository struct {
	coll *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{coll: db.Collection(filesCollection)}
}

// withoutText keeps extracted text out of listings.
var withoutText = bson.M{"extractedText": 0}

var newestFirst = bson.D{{Key: "uploadDate", Value: -1}}

func (r *DocumentRepository) InsertMany(ctx context.Context, docs []*models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := r.coll.InsertMany(ctx, toInterfaces(docs))
	return err
}

func (r *DocumentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var doc models.Document
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Document")
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) Replace(ctx context.Context, doc *models.Document) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Document")
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Document")
	}
	return nil
}

func (r *DocumentRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (r *DocumentRepository) Search(ctx context.Context, q documents.Query) ([]models.Document, int64, error) {
	filter := q.BSON()
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(q.Skip()).
		SetLimit(q.Limit).
		SetProjection(withoutText)
	docs, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func (r *DocumentRepository) Recent(ctx context.Context, limit int64) ([]models.Document, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(limit).SetProjection(withoutText))
}

func (r *DocumentRepository) All(ctx context.Context) ([]models.Document, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetProjection(withoutText))
}

func (r *DocumentRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Document, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]models.Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

type categoryGroup struct {
	Category  string                   `bson:"_id"`
	Documents []models.DocumentSummary `bson:"documents"`
}

// groupByCategoryPipeline buckets summaries per category, newest first.
func groupByCategoryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "documents", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "_id", Value: "$_id"},
				{Key: "documentTitle", Value: "$documentTitle"},
				{Key: "filename", Value: "$filename"},
				{Key: "documentType", Value: "$documentType"},
				{Key: "uploadDate", Value: "$uploadDate"},
				{Key: "preparedBy", Value: "$preparedBy"},
				{Key: "uploader", Value: "$uploader"},
			}}}},
		}}},
	}
}

func (r *DocumentRepository) GroupByCategory(ctx context.Context) (map[string][]models.DocumentSummary, error) {
	cursor, err := r.coll.Aggregate(ctx, groupByCategoryPipeline())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []categoryGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	out := make(map[string][]models.DocumentSummary, len(groups))
	for _, g := range groups {
		out[g.Category] = g.Documents
	}
	return out, nil
}

// LatestEntryID returns the numerically highest entry id, or "" when there
// are no documents.
func (r *DocumentRepository) LatestEntryID(ctx context.Context) (string, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "entryId", Value: -1}}).
		SetCollation(numericCollation()).
		SetProjection(bson.M{"entryId": 1})

	var doc struct {
		EntryID string `bson:"entryId"`
	}
	err := r.coll.FindOne(ctx, bson.M{"entryId": bson.M{"$exists": true}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.EntryID, nil
}

func toInterfaces[T any](items []T) []interface{} {
	out := make([]interface{}, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
