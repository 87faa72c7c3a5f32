package mongo

import (
	"context"
	"fmt"

	"restobook/internal/migrations/mongo/validators"
	"restobook/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingsIndexes backs each read path: by restaurant, by creator and the two date boundaries.
var BookingsIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "restaurantId", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("restaurant_active"),
	},
	{
		Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("creator_active"),
	},
	{
		Keys:    bson.D{{Key: "reservationDate.startFrom", Value: 1}},
		Options: options.Index().SetName("reservation_start"),
	},
	{
		Keys:    bson.D{{Key: "reservationDate.to", Value: 1}},
		Options: options.Index().SetName("reservation_end"),
	},
}

func RunMigration(ctx context.Context, db *mongo.Database, collection string, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name(), "collection", collection)

	if err := ensureCollection(ctx, db, collection, validators.BookingValidator, log); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", collection, err)
	}
	if err := ensureIndexes(ctx, db, collection, BookingsIndexes, log); err != nil {
		return fmt.Errorf("failed to ensure indexes for %s: %w", collection, err)
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", created)
	return nil
}
