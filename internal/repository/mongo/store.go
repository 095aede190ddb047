// Package mongo stores each record kind in its own MongoDB collection. The
// string id lives in the "id" field; _id is left to the driver and gives the
// natural insertion order.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
)

// Collection is a domain.Collection over one MongoDB collection
type Collection[T domain.Record] struct {
	coll *mongo.Collection
	// dateField is the bson field compared against Query.Since
	dateField string
}

var _ domain.Collection[domain.WorkLog] = (*Collection[domain.WorkLog])(nil)

func NewCollection[T domain.Record](db *mongo.Database, name, dateField string) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name), dateField: dateField}
}

// EnsureIndexes creates the unique id index and the owner lookup index
func (c *Collection[T]) EnsureIndexes(ctx context.Context) error {
	_, err := c.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "project_id", Value: 1}, {Key: c.dateField, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create %s indexes: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	_, err := c.coll.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert %s %s: %w", c.coll.Name(), rec.RecordID(), domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *Collection[T]) Find(ctx context.Context, q domain.Query) ([]T, error) {
	filter := bson.M{"user_id": q.OwnerID}
	if q.ProjectID != "" {
		filter["project_id"] = q.ProjectID
	}
	if !q.Since.IsZero() {
		filter[c.dateField] = bson.M{"$gte": q.Since}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(q.Cap()))

	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	err := c.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, domain.ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("get %s: %w", c.coll.Name(), err)
	}
	return rec, nil
}

func (c *Collection[T]) Replace(ctx context.Context, rec T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{"id": rec.RecordID()}, rec)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Users is a domain.UserRepository over the users collection
type Users struct {
	coll *mongo.Collection
}

var _ domain.UserRepository = (*Users)(nil)

func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection("users")}
}

// EnsureIndexes makes id and username unique, and email unique when present
func (u *Users) EnsureIndexes(ctx context.Context) error {
	_, err := u.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
	})
	if err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}
	return nil
}

func (u *Users) Create(ctx context.Context, user *domain.User) error {
	_, err := u.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (u *Users) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return u.findOne(ctx, bson.M{"id": id})
}

func (u *Users) GetByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := u.findOne(ctx, bson.M{"username": identifier})
	if errors.Is(err, domain.ErrNotFound) && identifier != "" {
		return u.findOne(ctx, bson.M{"email": identifier})
	}
	return user, err
}

func (u *Users) Exists(ctx context.Context, username, email string) (bool, error) {
	or := bson.A{bson.M{"username": username}}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	n, err := u.coll.CountDocuments(ctx, bson.M{"$or": or}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return n > 0, nil
}

func (u *Users) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := u.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// NewStore builds a domain.Store on db and ensures its indexes
func NewStore(ctx context.Context, db *mongo.Database) (domain.Store, error) {
	users := NewUsers(db)
	projects := NewCollection[domain.Project](db, "projects", "created_at")
	workers := NewCollection[domain.Worker](db, "workers", "created_at")
	expenses := NewCollection[domain.Expense](db, "expenses", "date")
	incomes := NewCollection[domain.Income](db, "incomes", "date")
	workLogs := NewCollection[domain.WorkLog](db, "workdays", "date")

	for _, ix := range []interface{ EnsureIndexes(context.Context) error }{
		users, projects, workers, expenses, incomes, workLogs,
	} {
		if err := ix.EnsureIndexes(ctx); err != nil {
			return domain.Store{}, err
		}
	}

	return domain.Store{
		Users:    users,
		Projects: projects,
		Workers:  workers,
		Expenses: expenses,
		Incomes:  incomes,
		WorkLogs: workLogs,
	}, nil
}
