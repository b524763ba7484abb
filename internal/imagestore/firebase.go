package imagestore

import (
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	fbstorage "firebase.google.com/go/v4/storage"
	"github.com/google/uuid"
)

// FirebaseStore writes images to a Firebase Storage bucket. Objects carry a
// download token so the returned URL works without signed-URL expiry.
type FirebaseStore struct {
	bucket     *storage.BucketHandle
	bucketName string
	folder     string
}

// NewFirebaseStore opens bucketName through the Firebase storage client.
func NewFirebaseStore(client *fbstorage.Client, bucketName, folder string) (*FirebaseStore, error) {
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("open bucket %q: %w", bucketName, err)
	}
	return &FirebaseStore{bucket: bucket, bucketName: bucketName, folder: folder}, nil
}

func (s *FirebaseStore) Upload(ctx context.Context, img Image) (string, error) {
	name := ObjectName(s.folder, img.Filename)
	token := uuid.NewString()

	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = img.ContentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}

	if _, err := w.Write(img.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object %s: %w", name, err)
	}
	return firebaseDownloadURL(s.bucketName, name, token), nil
}

func firebaseDownloadURL(bucket, object, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(object), token)
}
