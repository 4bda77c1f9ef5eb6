package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/classroom-sim/sim"
)

const defaultS3Region = "us-east-1"

// S3Config selects the bucket and, optionally, a custom S3-compatible endpoint.
// Without an access key, credentials come from the default AWS chain.
type S3Config struct {
	Bucket          string
	Region          string // default us-east-1
	Endpoint        string // optional, e.g. a MinIO URL
	AccessKeyID     string // optional
	SecretAccessKey string // optional
	PathStyle       bool
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader uploads results as JSON objects.
type S3Uploader struct {
	client putObjectAPI
	bucket string
}

// NewS3Uploader builds an uploader from the default AWS configuration.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultS3Region
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Uploader{client: client, bucket: cfg.Bucket}, nil
}

// Upload writes res as a JSON document to key, replacing any existing object.
func (u *S3Uploader) Upload(ctx context.Context, key string, res *sim.Result) error {
	if key == "" {
		return fmt.Errorf("s3 key required")
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		return err
	}
	size := int64(buf.Len())
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", u.bucket, key, err)
	}
	logrus.Infof("Uploaded %d bytes to s3://%s/%s", size, u.bucket, key)
	return nil
}
