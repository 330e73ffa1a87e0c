package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// UploadTimeout bounds a single upload
const UploadTimeout = 60 * time.Second

// Uploader stores an encoded image under a key
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte) error
}

// S3Config describes an S3 compatible bucket
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty uses AWS
	AccessKey string
	SecretKey string
	ACL       string // e.g. "public-read"; empty leaves the bucket default
}

// S3Uploader uploads to an S3 compatible store
type S3Uploader struct {
	client *s3.S3
	config S3Config
	logger core.Logger
}

// NewS3Uploader creates an uploader with static credentials. Path-style
// addressing is forced so MinIO and similar stores work with a custom endpoint.
func NewS3Uploader(config S3Config, logger core.Logger) (*S3Uploader, error) {
	if config.Bucket == "" {
		return nil, errors.New("s3 upload needs a bucket")
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if config.AccessKey != "" || config.SecretKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3Uploader{
		client: s3.New(sess),
		config: config,
		logger: logger,
	}, nil
}

// Upload implements Uploader. The content type is derived from the key's
// extension.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ContentType(key)),
	}
	if u.config.ACL != "" {
		input.ACL = aws.String(u.config.ACL)
	}

	if _, err := u.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	u.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, u.config.Bucket, size)
	return nil
}

// ContentType guesses the MIME type of an image from its name
func ContentType(name string) string {
	switch ext := path.Ext(name); ext {
	case ".ppm":
		return "image/x-portable-pixmap"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}

// ObjectKey joins an optional prefix and a file name into an object key
func ObjectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
