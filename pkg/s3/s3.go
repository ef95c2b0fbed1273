package s3

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"creator-market/pkg/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Client is bound to a single bucket. Profile media lives in the public
// bucket, product assets in the private one and are only served through
// presigned URLs.
type Client struct {
	s3Client *s3.S3
	bucket   string
}

func NewClient(cfg *config.Config, bucket string) (*Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}

	// Support MinIO for local development
	if cfg.AWSEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.AWSEndpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		if cfg.S3UseSSL == "false" {
			awsConfig.DisableSSL = aws.Bool(true)
		}
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := &Client{
		s3Client: s3.New(sess),
		bucket:   bucket,
	}

	// Ensure bucket exists (for MinIO)
	if _, err := client.s3Client.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		if _, err := client.s3Client.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(bucket)}); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket %s: %w", bucket, err)
		}
	}

	return client, nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

// Put stores body at key, replacing any existing object.
func (c *Client) Put(key string, body io.ReadSeeker, contentType string) error {
	_, err := c.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return nil
}

func (c *Client) PublicURL(key string) string {
	endpoint := aws.StringValue(c.s3Client.Config.Endpoint)
	if endpoint != "" && !strings.Contains(endpoint, "amazonaws.com") {
		// MinIO URL format
		protocol := "https"
		if aws.BoolValue(c.s3Client.Config.DisableSSL) {
			protocol = "http"
		}
		endpoint = strings.TrimPrefix(endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		return fmt.Sprintf("%s://%s/%s/%s", protocol, endpoint, c.bucket, key)
	}

	region := aws.StringValue(c.s3Client.Config.Region)
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, region, key)
}

// SignedURL returns a presigned GET for key that stops working after ttl.
func (c *Client) SignedURL(key string, ttl time.Duration) (string, error) {
	req, _ := c.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return url, nil
}

func (c *Client) Delete(key string) error {
	_, err := c.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// ProfileMediaKey is the fixed location of a profile's avatar or cover, so a
// new upload overwrites the previous one.
func ProfileMediaKey(ownerID, kind, ext string) string {
	return fmt.Sprintf("%s/%s.%s", ownerID, kind, strings.TrimPrefix(strings.ToLower(ext), "."))
}

func ProductAssetKey(productType, ownerID string, ts time.Time, filename string) string {
	return fmt.Sprintf("%s/%s-%d-%s", productType, ownerID, ts.UnixMilli(), SanitizeFilename(filename))
}

func ThumbnailKey(ownerID string, ts time.Time, filename string) string {
	return fmt.Sprintf("thumbs/%s-%d-%s", ownerID, ts.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename drops any directory part and replaces characters that would
// need escaping in a key.
func SanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
