package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultBucket is the GridFS bucket holding report PDFs
const DefaultBucket = "followership_reports"

// GridFSStore keeps blobs in a MongoDB GridFS bucket. gridfs.Bucket holds
// its read/write deadlines as fields, so every call gets its own bucket.
type GridFSStore struct {
	db   *mongo.Database
	name string
}

// NewGridFSStore opens (lazily creating) the named bucket
func NewGridFSStore(db *mongo.Database, name string) (*GridFSStore, error) {
	if name == "" {
		name = DefaultBucket
	}
	s := &GridFSStore{db: db, name: name}
	if _, err := s.newBucket(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GridFSStore) newBucket() (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.name))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket %s: %w", s.name, err)
	}
	return bucket, nil
}

func (s *GridFSStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	bucket, err := s.newBucket()
	if err != nil {
		return "", err
	}
	if err := bucket.SetWriteDeadline(deadline(ctx)); err != nil {
		return "", err
	}
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	id, err := bucket.UploadFromStream(key, r, opts)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return id.Hex(), nil
}

func (s *GridFSStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	bucket, err := s.newBucket()
	if err != nil {
		return nil, err
	}
	if err := bucket.SetReadDeadline(deadline(ctx)); err != nil {
		return nil, err
	}
	stream, err := bucket.OpenDownloadStream(oid)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (s *GridFSStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	bucket, err := s.newBucket()
	if err != nil {
		return err
	}
	err = bucket.DeleteContext(ctx, oid)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil
	}
	return err
}

// deadline returns the zero time when ctx has none, meaning no deadline
func deadline(ctx context.Context) time.Time {
	d, _ := ctx.Deadline()
	return d
}
