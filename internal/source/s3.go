package source

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// ObjectGetter is the part of the S3 API the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads one object.
type S3Source struct {
	Client  ObjectGetter
	Bucket  string
	Key     string
	Decoder Decoder
}

// NewS3Client creates an S3 client from the default credential chain.
//
// PARAMETERS:
//   - region: AWS region, e.g. "us-east-2".
//   - endpoint: Optional base endpoint for S3-compatible stores (MinIO,
//     LocalStack). Path-style addressing is used when set.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Fetch implements Source.
func (s *S3Source) Fetch(ctx context.Context) (*types.Dataset, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.Describe(), err)
	}
	defer out.Body.Close()

	ds, err := s.Decoder.Decode(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.Describe(), err)
	}
	ds.Origin = s.Describe()
	return ds, nil
}

// Describe implements Source.
func (s *S3Source) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}
