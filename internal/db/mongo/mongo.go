// Package mongo stores users, groups, tasks and completion events in
// MongoDB. Documents are keyed by UUID strings, so collections written with
// ObjectId keys by older deployments are not read; they need a migration
// before they can be served from here.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection       = "users"
	groupsCollection      = "groups"
	tasksCollection       = "tasks"
	completionsCollection = "completed_tasks"
)

type Store struct {
	client      *mongo.Client
	users       *mongo.Collection
	groups      *mongo.Collection
	tasks       *mongo.Collection
	completions *mongo.Collection
}

// New connects to uri, selects database dbName and ensures the unique
// indexes the services rely on.
func New(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging mongo: %w", err)
	}

	database := client.Database(dbName)
	s := &Store{
		client:      client,
		users:       database.Collection(usersCollection),
		groups:      database.Collection(groupsCollection),
		tasks:       database.Collection(tasksCollection),
		completions: database.Collection(completionsCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.groups, mongo.IndexModel{Keys: bson.D{{Key: "group_name", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.groups, mongo.IndexModel{Keys: bson.D{{Key: "user_phones", Value: 1}}}},
		{s.tasks, mongo.IndexModel{Keys: bson.D{{Key: "group", Value: 1}}}},
		{s.tasks, mongo.IndexModel{Keys: bson.D{{Key: "created_by", Value: 1}}}},
		{s.completions, mongo.IndexModel{Keys: bson.D{{Key: "key_time", Value: 1}}}},
		{s.completions, mongo.IndexModel{Keys: bson.D{{Key: "phone", Value: 1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("error creating index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// insertionOrder sorts by creation time, the natural order of every listing.
func insertionOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
}

// inStrings builds an $in/$nin operand that is never a null array.
func inStrings(values []string) bson.A {
	a := bson.A{}
	for _, v := range values {
		a = append(a, v)
	}
	return a
}
