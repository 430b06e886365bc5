package bucket

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/raushankrgupta/storefront-listings/sources/base"
	"github.com/raushankrgupta/storefront-listings/utils"
)

// ObjectGetter is the subset of the S3 client used to read listing objects
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// BucketSource reads listings stored as an S3 object (s3://bucket/key)
type BucketSource struct {
	// Client is resolved lazily from utils.InitS3 when nil
	Client ObjectGetter
}

func NewBucketSource() *BucketSource {
	return &BucketSource{}
}

func (s *BucketSource) CanFetch(uri string) bool {
	return strings.HasPrefix(strings.ToLower(uri), "s3://")
}

func (s *BucketSource) FetchRows(ctx context.Context, uri string) ([]models.RawRow, error) {
	bucketName, key, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	client := s.Client
	if client == nil {
		c, err := utils.InitS3(ctx)
		if err != nil {
			return nil, err
		}
		client = c
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket:               aws.String(bucketName),
		Key:                  aws.String(key),
		ResponseCacheControl: aws.String("no-store"),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s: %w", uri, err)
	}
	defer out.Body.Close()

	return base.DecodeRows(out.Body, base.FormatFor(key, aws.ToString(out.ContentType)))
}

// ParseURI splits s3://bucket/key into its parts
func ParseURI(uri string) (string, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 uri %q: %w", uri, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q: want s3://bucket/key", uri)
	}
	return u.Host, key, nil
}
