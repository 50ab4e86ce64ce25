package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/workcredits/internal/ledger"
	sc "github.com/dmitrijs2005/workcredits/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func testConfig() *sc.Config {
	return &sc.Config{
		S3Region:       "eu-west-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "ledger-archive",
		ArchivePrefix:  "/ledger/",
	}
}

func stubSeams(t *testing.T, put *fakePutter, loadErr error) *s3.Options {
	t.Helper()
	origLoad, origNew, origID := loadDefaultAWSConfig, newS3ClientFromConfig, newObjectID
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newObjectID = origLoad, origNew, origID
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		if loadErr != nil {
			return aws.Config{}, loadErr
		}
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{Region: lo.Region}, nil
	}

	applied := &s3.Options{}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		for _, fn := range optFns {
			fn(applied)
		}
		return put
	}
	newObjectID = func() string { return "obj-1" }
	return applied
}

func TestKey(t *testing.T) {
	e := NewExporter(testConfig())
	orig := newObjectID
	t.Cleanup(func() { newObjectID = orig })
	newObjectID = func() string { return "abc" }

	ts := time.Date(2026, 3, 7, 23, 0, 0, 0, time.FixedZone("x", -2*3600))
	assert.Equal(t, "ledger/2026/03/08/abc.json", e.Key(ts))

	e.prefix = ""
	assert.Equal(t, "2026/03/08/abc.json", e.Key(ts))
}

func TestExport_Success(t *testing.T) {
	put := &fakePutter{}
	opts := stubSeams(t, put, nil)

	e := NewExporter(testConfig())
	e.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	txs := []ledger.Transaction{{
		ID: 1, Type: ledger.TypeMint, Admin: "root", Recipient: "alice",
		Amount: big.NewInt(100), Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	key, err := e.Export(context.Background(), txs, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, "ledger/2026/01/02/obj-1.json", key)

	require.NotNil(t, put.in)
	assert.Equal(t, "ledger-archive", aws.ToString(put.in.Bucket))
	assert.Equal(t, key, aws.ToString(put.in.Key))
	assert.Equal(t, "application/json", aws.ToString(put.in.ContentType))
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)

	var doc Document
	require.NoError(t, json.Unmarshal(put.body, &doc))
	assert.Equal(t, "100", doc.TotalSupply.String())
	require.Len(t, doc.Transactions, 1)
	assert.Equal(t, ledger.Principal("alice"), doc.Transactions[0].Recipient)
	assert.Equal(t, "100", doc.Transactions[0].Amount.String())
}

func TestExport_EmptyLedgerWritesEmptyList(t *testing.T) {
	put := &fakePutter{}
	stubSeams(t, put, nil)

	_, err := NewExporter(testConfig()).Export(context.Background(), nil, new(big.Int))
	require.NoError(t, err)
	assert.Contains(t, string(put.body), `"transactions":[]`)
}

func TestExport_Errors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		stubSeams(t, &fakePutter{}, errors.New("no region"))
		_, err := NewExporter(testConfig()).Export(context.Background(), nil, new(big.Int))
		require.ErrorContains(t, err, "aws config")
	})
	t.Run("put", func(t *testing.T) {
		stubSeams(t, &fakePutter{err: errors.New("access denied")}, nil)
		_, err := NewExporter(testConfig()).Export(context.Background(), nil, new(big.Int))
		require.ErrorContains(t, err, "access denied")
	})
}
