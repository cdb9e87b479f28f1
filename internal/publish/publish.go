// Package publish uploads generated reports to shared storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/claudekit/skillbench/internal/projectconfig"
)

//go:generate go tool mockgen -source=publish.go -destination=publish_mocks_test.go -package=publish

// ErrNotConfigured is returned by New when the project has no publish target.
var ErrNotConfigured = errors.New("no publish target configured (set publish.azure_blob in .skillbench.yaml)")

// Publisher stores a named report and returns its location.
type Publisher interface {
	Publish(ctx context.Context, name string, content []byte) (string, error)
}

// uploader is the part of [*azblob.Client] a publisher uses.
type uploader interface {
	UploadBuffer(ctx context.Context, containerName string, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// AzureBlobPublisher uploads reports to <container>/<prefix><name>.
type AzureBlobPublisher struct {
	accountURL string
	container  string
	prefix     string
	client     uploader
}

// New creates a publisher from project config, authenticating with the
// default Azure credential chain.
func New(cfg projectconfig.PublishConfig) (*AzureBlobPublisher, error) {
	b := cfg.AzureBlob
	if b == nil || b.AccountURL == "" || b.Container == "" {
		return nil, ErrNotConfigured
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating azure credential: %w", err)
	}

	client, err := azblob.NewClient(b.AccountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client for %s: %w", b.AccountURL, err)
	}

	return newAzureBlobPublisher(b, client), nil
}

func newAzureBlobPublisher(b *projectconfig.AzureBlobConfig, client uploader) *AzureBlobPublisher {
	return &AzureBlobPublisher{
		accountURL: strings.TrimSuffix(b.AccountURL, "/"),
		container:  b.Container,
		prefix:     b.Prefix,
		client:     client,
	}
}

// BlobName is the blob a report called name is stored under.
func (p *AzureBlobPublisher) BlobName(name string) string {
	return p.prefix + path.Base(name)
}

// Publish uploads content and returns the blob URL.
func (p *AzureBlobPublisher) Publish(ctx context.Context, name string, content []byte) (string, error) {
	blobName := p.BlobName(name)

	_, err := p.client.UploadBuffer(ctx, p.container, blobName, content, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(contentType(name)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to container %s: %w", blobName, p.container, err)
	}

	url := p.accountURL + "/" + p.container + "/" + blobName
	slog.Debug("Published report", "url", url, "bytes", len(content))
	return url, nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	default:
		return "text/markdown; charset=utf-8"
	}
}
