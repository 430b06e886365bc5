package utils

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/raushankrgupta/storefront-listings/config"
)

var (
	S3Client *s3.Client
	s3Once   sync.Once
	s3Err    error
)

// InitS3 initializes the S3 client once; later calls return the first result.
func InitS3(ctx context.Context) (*s3.Client, error) {
	s3Once.Do(func() {
		cfg, err := config.LoadDefaultConfig(ctx,
			config.WithRegion(appConfig.AWSRegion),
		)
		if err != nil {
			s3Err = fmt.Errorf("unable to load SDK config: %w", err)
			return
		}
		S3Client = s3.NewFromConfig(cfg)
		Logger.Info("S3 Client Initialized")
	})
	return S3Client, s3Err
}
