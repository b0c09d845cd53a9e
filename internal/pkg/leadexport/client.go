package leadexport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"

	"github.com/mikeskafld/dojo-web/app/models"
)

// Client wraps the S3 client with lead-export functionality
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// NewClient creates a new S3 lead-export client
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("S3 export is disabled")
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// Path-style URLs for S3-compatible services (MinIO, B2).
			o.UsePathStyle = true
		}
	})

	return &Client{
		s3Client: s3Client,
		config:   cfg,
	}, nil
}

// ExportResult describes one uploaded export file.
type ExportResult struct {
	BucketName string
	ObjectKey  string
	Rows       int
	Size       int64
}

// ExportCreatorApplications uploads all creator leads as a CSV object.
func (c *Client) ExportCreatorApplications(ctx context.Context, apps []models.CreatorApplication) (*ExportResult, error) {
	data, err := buildCreatorCSV(apps)
	if err != nil {
		return nil, err
	}
	return c.upload(ctx, c.config.GetObjectKey("creator-applications", time.Now()), data, len(apps))
}

// ExportLearnerWaitlist uploads all waitlist leads as a CSV object.
func (c *Client) ExportLearnerWaitlist(ctx context.Context, entries []models.LearnerWaitlistEntry) (*ExportResult, error) {
	data, err := buildWaitlistCSV(entries)
	if err != nil {
		return nil, err
	}
	return c.upload(ctx, c.config.GetObjectKey("learner-waitlist", time.Now()), data, len(entries))
}

func (c *Client) upload(ctx context.Context, objectKey string, data []byte, rows int) (*ExportResult, error) {
	bucketName := c.config.BucketName

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("text/csv"),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata: map[string]string{
			"row-count":     strconv.Itoa(rows),
			"upload-source": "dojo-lead-export",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Infof("[LeadExport] Uploaded %d rows: s3://%s/%s", rows, bucketName, objectKey)
	return &ExportResult{
		BucketName: bucketName,
		ObjectKey:  objectKey,
		Rows:       rows,
		Size:       int64(len(data)),
	}, nil
}

func buildCreatorCSV(apps []models.CreatorApplication) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"reference", "name", "email", "niche", "social_link", "audience_size", "created_at"}); err != nil {
		return nil, err
	}
	for _, a := range apps {
		record := []string{
			a.Reference,
			a.Name,
			a.Email,
			a.Niche,
			a.SocialLink,
			a.AudienceSize,
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func buildWaitlistCSV(entries []models.LearnerWaitlistEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"reference", "email", "name", "interests", "created_at"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{
			e.Reference,
			e.Email,
			e.Name,
			strings.Join(e.Interests(), "|"),
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
