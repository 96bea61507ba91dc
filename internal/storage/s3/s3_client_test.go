package s3

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiendapos/internal/config"
)

func TestClientOptions_CustomEndpoint(t *testing.T) {
	assert.Empty(t, clientOptions(&config.S3Config{}))

	opts := clientOptions(&config.S3Config{Endpoint: "http://localhost:9000"})
	require.Len(t, opts, 1)
	var o s3.Options
	opts[0](&o)
	assert.True(t, o.UsePathStyle)
	assert.Equal(t, "http://localhost:9000", aws.ToString(o.BaseEndpoint))
}

func TestLoadOptions_StaticCredentials(t *testing.T) {
	assert.Len(t, loadOptions(&config.S3Config{Region: "us-east-1"}), 1)
	assert.Len(t, loadOptions(&config.S3Config{Region: "us-east-1", AccessKey: "a", SecretKey: "b"}), 2)
}

// Presigning is computed locally, so no bucket is needed.
func TestGetPresignedURL(t *testing.T) {
	store, err := NewArchive(context.Background(), &config.S3Config{
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)

	raw, err := store.GetPresignedURL(context.Background(), "invoices", "invoices/andina/FE-1-abc.xml", 900)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/invoices/invoices/andina/FE-1-abc.xml"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("response-content-disposition"), "FE-1-abc.xml")
}
