// Package archive exports ledger snapshots to S3 compatible object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/workcredits/internal/ledger"
	sc "github.com/dmitrijs2005/workcredits/internal/server/config"
	"github.com/google/uuid"
)

// objectPutter is the part of *s3.Client the exporter needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newObjectID = uuid.NewString
)

// Document is the JSON body of an exported object.
type Document struct {
	ExportedAt   time.Time            `json:"exportedAt"`
	TotalSupply  *big.Int             `json:"totalSupply"`
	Transactions []ledger.Transaction `json:"transactions"`
}

type Exporter struct {
	bucket   string
	prefix   string
	region   string
	user     string
	password string
	endpoint string
	now      func() time.Time
}

func NewExporter(cfg *sc.Config) *Exporter {
	return &Exporter{
		bucket:   cfg.S3Bucket,
		prefix:   strings.Trim(cfg.ArchivePrefix, "/"),
		region:   cfg.S3Region,
		user:     cfg.S3RootUser,
		password: cfg.S3RootPassword,
		endpoint: cfg.S3BaseEndpoint,
		now:      time.Now,
	}
}

func (e *Exporter) client(ctx context.Context) (objectPutter, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(e.region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(e.user, e.password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.endpoint != "" {
			o.BaseEndpoint = aws.String(e.endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Key returns the object key for an export taken at t.
func (e *Exporter) Key(t time.Time) string {
	t = t.UTC()
	key := fmt.Sprintf("%04d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), newObjectID())
	if e.prefix == "" {
		return key
	}
	return e.prefix + "/" + key
}

// Export uploads txs as one JSON document and returns the object key.
func (e *Exporter) Export(ctx context.Context, txs []ledger.Transaction, supply *big.Int) (string, error) {
	now := e.now()
	if txs == nil {
		txs = []ledger.Transaction{}
	}

	body, err := json.Marshal(Document{ExportedAt: now.UTC(), TotalSupply: supply, Transactions: txs})
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}

	client, err := e.client(ctx)
	if err != nil {
		return "", err
	}

	key := e.Key(now)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}
