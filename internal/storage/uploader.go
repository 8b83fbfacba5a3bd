// Package storage uploads media (profile banners, voice notes) to the
// project's Firebase storage bucket and returns tokenized download URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

type Uploader struct {
	bucket string
	client *gcs.Client
}

func NewUploader(ctx context.Context, bucket, credentialsFile string) (*Uploader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Uploader{bucket: bucket, client: client}, nil
}

// Upload writes the object and returns a Firebase-style download URL guarded
// by a fresh access token.
func (u *Uploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	token := uuid.NewString()
	w := u.client.Bucket(u.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	escapedPath := url.PathEscape(objectPath)
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		u.bucket, escapedPath, token), nil
}

func (u *Uploader) Close() error {
	return u.client.Close()
}
