package storage

import (
	"context"
	"log"
	"time"

	"spashta/legal-docs/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Storage implements the FileStorage interface using an S3-compatible backend.
type s3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
}

// NewS3Storage creates a new S3 storage service instance.
func NewS3Storage(cfg config.S3Config) (FileStorage, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution if no custom endpoint is set
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	// Force path-style addressing required by most S3-compatible services
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	presignClient := s3.NewPresignClient(s3Client)

	log.Printf("INFO: S3 storage initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &s3Storage{
		client:        s3Client,
		presignClient: presignClient,
		bucketName:    cfg.BucketName,
	}, nil
}

// IssueUploadTarget creates a presigned POST for one object key. A POST
// policy (rather than a presigned PUT) is used because the policy can carry
// a content-length-range condition; the store itself then rejects payloads
// outside [1, maxSize].
func (s *s3Storage) IssueUploadTarget(ctx context.Context, objectKey, contentType string, maxSize int64, expires time.Duration) (*UploadTarget, error) {
	if expires <= 0 {
		expires = DefaultUploadURLExpiry
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType), // Client MUST send this field on upload
	}

	req, err := s.presignClient.PresignPostObject(ctx, input, func(o *s3.PresignPostOptions) {
		o.Expires = expires
		o.Conditions = []interface{}{
			[]interface{}{"content-length-range", 1, maxSize},
		}
	})
	if err != nil {
		log.Printf("ERROR: Failed to generate presigned POST for key '%s': %v", objectKey, err)
		return nil, err
	}

	return &UploadTarget{
		URL:       req.URL,
		Fields:    req.Values,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(expires),
	}, nil
}

// ListObjectKeys walks the bucket with paginated ListObjectsV2 calls.
func (s *s3Storage) ListObjectKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to list objects in bucket '%s': %v", s.bucketName, err)
			return nil, err
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}

func (s *s3Storage) BucketName() string {
	return s.bucketName
}
