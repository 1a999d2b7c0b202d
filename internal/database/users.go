package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/timezone"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("Username already exists.")
	}
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) SetPermissions(ctx context.Context, id primitive.ObjectID, set models.PermissionSet) (*models.User, error) {
	update := bson.M{"$set": bson.M{"permissions": set, "updatedAt": timezone.Now()}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0})

	var u models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// designationUpdate writes the defaults of d under its own key of the
// designationPermissions map.
func designationUpdate(d models.Designation, set models.PermissionSet) bson.M {
	return bson.M{"$set": bson.M{
		"designationPermissions." + string(d): set,
		"updatedAt":                           timezone.Now(),
	}}
}

func (r *UserRepository) SetDesignationPermissions(ctx context.Context, d models.Designation, set models.PermissionSet) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"designation": d}, designationUpdate(d, set))
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
