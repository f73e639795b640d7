package db

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"simple-blog/models"
)

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	ImagePath *string            `bson:"imagePath"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d postDocument) toModel() models.Post {
	return models.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		ImagePath: d.ImagePath,
		CreatedAt: d.CreatedAt,
	}
}

// MongoStore keeps posts in a single MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and verifies the deployment is reachable.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongo")
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "failed to ping mongo")
	}

	log.Printf("Mongo connection initialized successfully (database=%s collection=%s).", database, collection)
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// NewMongoStoreFromCollection wraps an already configured collection.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Create(ctx context.Context, title, content string, imagePath *string) (*models.Post, error) {
	doc := postDocument{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   content,
		ImagePath: imagePath,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, storageError("create", errors.Wrap(err, "insert post"))
	}

	post := doc.toModel()
	return &post, nil
}

func (s *MongoStore) ListAllDescending(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, storageError("list", errors.Wrap(err, "find posts"))
	}
	defer cursor.Close(ctx)

	posts := make([]models.Post, 0)
	for cursor.Next(ctx) {
		var doc postDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, storageError("list", errors.Wrap(err, "decode post"))
		}
		posts = append(posts, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, storageError("list", errors.Wrap(err, "iterate posts"))
	}

	return posts, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
