// Package mongorepo stores users and resources as MongoDB documents. Document
// ids are the same UUID strings the SQL stores use.
package mongorepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection     = "users"
	resourcesCollection = "resources"
)

// EnsureIndexes creates the unique email index and the listing indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
	})
	if err != nil {
		return fmt.Errorf("create users email index failed: %w", err)
	}

	_, err = db.Collection(resourcesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_resources_created"),
		},
		{
			Keys:    bson.D{{Key: "posted_by", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_resources_owner_created"),
		},
	})
	if err != nil {
		return fmt.Errorf("create resources indexes failed: %w", err)
	}
	return nil
}
