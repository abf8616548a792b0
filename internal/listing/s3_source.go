package listing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Source loads the peer dataset from CSV objects in an S3 bucket. Used in
// deployed environments where the cleaned dataset is published by the
// upstream pipeline.
type S3Source struct {
	client      *s3.Client
	bucket      string
	listingKey  string
	districtKey string
}

// NewS3Source builds an S3Source using the default AWS credential chain,
// optionally pinned to a shared-config profile.
func NewS3Source(ctx context.Context, bucket, region, profile, listingKey, districtKey string) (*S3Source, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &S3Source{
		client:      s3.NewFromConfig(cfg),
		bucket:      bucket,
		listingKey:  listingKey,
		districtKey: districtKey,
	}, nil
}

// Load downloads and parses both tables.
func (s *S3Source) Load() (*Dataset, error) {
	ctx := context.Background()

	lobj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.listingKey),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", s.bucket, s.listingKey, err)
	}
	defer lobj.Body.Close()

	listings, err := parseListings(lobj.Body)
	if err != nil {
		return nil, err
	}

	dobj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.districtKey),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", s.bucket, s.districtKey, err)
	}
	defer dobj.Body.Close()

	districts, err := parseDistricts(dobj.Body)
	if err != nil {
		return nil, err
	}

	return finishDataset(listings, districts, fmt.Sprintf("s3://%s/%s", s.bucket, s.listingKey)), nil
}
