package repository

import (
	"context"
	"fmt"

	"ServerDesk/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetServerProfiles returns every stored server profile, sorted by profile name.
func (m *MongoDB) GetServerProfiles(ctx context.Context) ([]entity.ServerProfile, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(serversCollection)

	opts := options.Find().SetSort(bson.D{{Key: "profile_name", Value: 1}})

	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []entity.ServerProfile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}

	return profiles, nil
}

// UpsertServerProfile inserts or updates a profile.
func (m *MongoDB) UpsertServerProfile(ctx context.Context, profile *entity.ServerProfile) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(serversCollection)

	filter := bson.D{{Key: "_id", Value: profile.ProfileID}}
	update := bson.D{{Key: "$set", Value: profile}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// DeleteServerProfile removes a profile by id.
func (m *MongoDB) DeleteServerProfile(ctx context.Context, profileID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(serversCollection)

	_, err = collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: profileID}})
	return err
}
