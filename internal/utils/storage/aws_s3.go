package storage

import (
	"bytes"
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"inventra-backend/internal/utils"
)

type (
	AwsS3 interface {
		Bucket() string
		UploadBytes(ctx context.Context, key string, body []byte, contentType string) error
	}

	awsS3 struct {
		client *s3.Client
		bucket string
	}
)

// NewAwsS3 builds a client from AWS_S3_* settings. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewAwsS3(ctx context.Context) (AwsS3, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(utils.GetConfig("AWS_S3_REGION")),
	}
	accessKey := utils.GetConfig("AWS_ACCESS_KEY")
	secretKey := utils.GetConfig("AWS_SECRET_KEY")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
	}, nil
}

func (a *awsS3) Bucket() string {
	return a.bucket
}

func (a *awsS3) UploadBytes(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}
