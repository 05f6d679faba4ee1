package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore backs the DocumentStore contract with MongoDB for self-hosted
// deployments. Sub-collections are flattened onto one Mongo collection per
// trailing path segment, with the parent document path kept in a "_parent"
// field ("patients/p1/prescriptions" -> collection "prescriptions",
// _parent "patients/p1"). Top-level collections have an empty _parent.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ DocumentStore = (*MongoStore)(nil)

// NewMongoStore connects to the given URI and database, failing fast when the
// server is unreachable.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

// Close disconnects from the server.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// splitCollectionPath separates the Mongo collection name (the trailing path
// segment) from the parent document path.
func splitCollectionPath(collectionPath string) (name, parent string) {
	i := strings.LastIndex(collectionPath, "/")
	if i < 0 {
		return collectionPath, ""
	}
	return collectionPath[i+1:], collectionPath[:i]
}

func (m *MongoStore) List(ctx context.Context, collectionPath string) ([]Document, error) {
	name, parent := splitCollectionPath(collectionPath)

	cur, err := m.db.Collection(name).Find(ctx, bson.M{"_parent": parent})
	if err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", collectionPath, err)
	}
	defer cur.Close(ctx)

	var docs []Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("mongo decode in %s: %w", collectionPath, err)
		}
		docs = append(docs, docFromBSON(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor %s: %w", collectionPath, err)
	}
	return docs, nil
}

func (m *MongoStore) Get(ctx context.Context, docPath string) (Document, error) {
	collectionPath, id := splitDocPath(docPath)
	name, parent := splitCollectionPath(collectionPath)

	filter := bson.M{"_parent": parent}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter["_id"] = oid
	} else {
		filter["_id"] = id
	}

	var raw bson.M
	err := m.db.Collection(name).FindOne(ctx, filter).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("mongo get %s: %w", docPath, err)
	}
	return docFromBSON(raw), nil
}

func (m *MongoStore) Add(ctx context.Context, collectionPath string, fields map[string]any) (string, error) {
	name, parent := splitCollectionPath(collectionPath)

	doc := bson.M{"_parent": parent}
	for k, v := range fields {
		doc[k] = v
	}

	res, err := m.db.Collection(name).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("mongo add to %s: %w", collectionPath, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo add to %s: unexpected id type %T", collectionPath, res.InsertedID)
	}
	return oid.Hex(), nil
}

func (m *MongoStore) Set(ctx context.Context, docPath string, fields map[string]any) error {
	collectionPath, id := splitDocPath(docPath)
	name, parent := splitCollectionPath(collectionPath)

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Fixed-name documents (settings/passcode) use non-ObjectID keys.
		return m.setByStringID(ctx, name, parent, id, fields)
	}

	doc := bson.M{"_parent": parent}
	for k, v := range fields {
		doc[k] = v
	}

	_, err = m.db.Collection(name).ReplaceOne(ctx,
		bson.M{"_id": oid, "_parent": parent}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set %s: %w", docPath, err)
	}
	return nil
}

func (m *MongoStore) setByStringID(ctx context.Context, name, parent, id string, fields map[string]any) error {
	doc := bson.M{"_parent": parent}
	for k, v := range fields {
		doc[k] = v
	}

	_, err := m.db.Collection(name).ReplaceOne(ctx,
		bson.M{"_id": id, "_parent": parent}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set %s/%s: %w", name, id, err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, docPath string) error {
	collectionPath, id := splitDocPath(docPath)
	name, parent := splitCollectionPath(collectionPath)

	filter := bson.M{"_parent": parent}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter["_id"] = oid
	} else {
		filter["_id"] = id
	}

	if _, err := m.db.Collection(name).DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("mongo delete %s: %w", docPath, err)
	}
	return nil
}

// docFromBSON strips the storage-internal keys and normalises the ID.
func docFromBSON(raw bson.M) Document {
	fields := make(map[string]any, len(raw))
	var id string

	for k, v := range raw {
		switch k {
		case "_id":
			switch tv := v.(type) {
			case primitive.ObjectID:
				id = tv.Hex()
			case string:
				id = tv
			}
		case "_parent":
			// internal
		default:
			if dt, ok := v.(primitive.DateTime); ok {
				fields[k] = dt.Time()
				continue
			}
			fields[k] = v
		}
	}
	return Document{ID: id, Fields: fields}
}
