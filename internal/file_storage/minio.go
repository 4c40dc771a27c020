package filestorage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/SeakMengs/MailBlast/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

// Archive keeps the raw bytes of uploaded dataset files in object storage so
// an operator can trace what a broadcast was generated from.
type Archive struct {
	s3     *minio.Client
	bucket string
}

func NewArchive(s3 *minio.Client, bucket string) *Archive {
	return &Archive{s3: s3, bucket: bucket}
}

// Store writes the uploaded file under the dataset id and returns the object
// name.
func (a *Archive) Store(ctx context.Context, datasetID, fileName string, content []byte) (string, error) {
	exists, err := a.s3.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := a.s3.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}

	objectName := fmt.Sprintf("%s/%s", datasetID, fileName)
	_, err = a.s3.PutObject(ctx, a.bucket, objectName, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive dataset file: %w", err)
	}

	return objectName, nil
}
