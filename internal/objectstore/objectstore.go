// Package objectstore keeps uploaded listing media in a MongoDB GridFS bucket
// and serves them back under {base}/media/{bucket}/{path}.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("object not found")

const defaultTimeout = 30 * time.Second

type GridFSStore struct {
	db         *mongo.Database
	bucketName string
	publicBase string
}

type fileDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Length   int64              `bson:"length"`
	Metadata struct {
		ContentType string `bson:"contentType"`
	} `bson:"metadata"`
}

func NewGridFSStore(client *mongo.Client, dbName, bucketName, publicBase string) (*GridFSStore, error) {
	s := &GridFSStore{
		db:         client.Database(dbName),
		bucketName: bucketName,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
	if _, err := s.open(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GridFSStore) Bucket() string {
	return s.bucketName
}

// URL returns the public URL an object is served from.
func (s *GridFSStore) URL(path string) string {
	return PublicURL(s.publicBase, s.bucketName, path)
}

// open returns a bucket handle bound to the deadline of ctx. Deadlines live on
// the handle, so each call gets its own.
func (s *GridFSStore) open(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucketName))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	d := deadline(ctx)
	if err := bucket.SetWriteDeadline(d); err != nil {
		return nil, err
	}
	if err := bucket.SetReadDeadline(d); err != nil {
		return nil, err
	}
	return bucket, nil
}

// Upload stores r under path and returns its public URL.
func (s *GridFSStore) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	bucket, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	stream, err := bucket.OpenUploadStream(path, opts)
	if err != nil {
		return "", fmt.Errorf("open upload stream: %w", err)
	}
	if _, err := io.Copy(stream, r); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("close upload stream: %w", err)
	}
	return s.URL(path), nil
}

// Open returns a reader over the newest revision of path and its content type.
func (s *GridFSStore) Open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	bucket, err := s.open(ctx)
	if err != nil {
		return nil, "", err
	}
	doc, err := find(ctx, bucket, path)
	if err != nil {
		return nil, "", err
	}
	stream, err := bucket.OpenDownloadStream(doc.ID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("open download stream: %w", err)
	}
	contentType := doc.Metadata.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return stream, contentType, nil
}

// Delete removes every revision stored under path.
func (s *GridFSStore) Delete(ctx context.Context, path string) error {
	bucket, err := s.open(ctx)
	if err != nil {
		return err
	}
	cursor, err := bucket.FindContext(ctx, bson.M{"filename": path})
	if err != nil {
		return fmt.Errorf("find %s: %w", path, err)
	}
	var docs []fileDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if len(docs) == 0 {
		return ErrNotFound
	}
	for _, d := range docs {
		if err := bucket.DeleteContext(ctx, d.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("delete %s: %w", path, err)
		}
	}
	return nil
}

func find(ctx context.Context, bucket *gridfs.Bucket, path string) (*fileDoc, error) {
	opts := options.GridFSFind().SetSort(bson.D{{Key: "uploadDate", Value: -1}}).SetLimit(1)
	cursor, err := bucket.FindContext(ctx, bson.M{"filename": path}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", path, err)
	}
	defer cursor.Close(ctx)
	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	var doc fileDoc
	if err := cursor.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(defaultTimeout)
}

// PublicURL joins base, bucket and path into the URL media are served from.
func PublicURL(base, bucket, path string) string {
	return strings.TrimRight(base, "/") + "/media/" + bucket + "/" + strings.TrimLeft(path, "/")
}

// PathFromURL extracts the object path that follows "/{bucket}/" in a media URL.
func PathFromURL(url, bucket string) (string, bool) {
	marker := "/" + bucket + "/"
	idx := strings.LastIndex(url, marker)
	if idx < 0 {
		return "", false
	}
	path := url[idx+len(marker):]
	if q := strings.IndexAny(path, "?#"); q >= 0 {
		path = path[:q]
	}
	return path, path != ""
}
