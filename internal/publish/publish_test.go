package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/claudekit/skillbench/internal/projectconfig"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testPublisher(t *testing.T) (*AzureBlobPublisher, *Mockuploader) {
	ctrl := gomock.NewController(t)
	client := NewMockuploader(ctrl)
	p := newAzureBlobPublisher(&projectconfig.AzureBlobConfig{
		AccountURL: "https://acct.blob.core.windows.net/",
		Container:  "reports",
		Prefix:     "skillbench/",
	}, client)
	return p, client
}

func TestPublish_Markdown(t *testing.T) {
	p, client := testPublisher(t)

	client.EXPECT().
		UploadBuffer(gomock.Any(), "reports", "skillbench/250109-1405-sonnet-benchmark.md", []byte("# Report"), gomock.Any()).
		DoAndReturn(func(ctx context.Context, container, name string, data []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error) {
			require.NotNil(t, o.HTTPHeaders)
			require.Equal(t, "text/markdown; charset=utf-8", *o.HTTPHeaders.BlobContentType)
			return azblob.UploadBufferResponse{}, nil
		})

	url, err := p.Publish(context.Background(), "/tmp/reports/250109-1405-sonnet-benchmark.md", []byte("# Report"))
	require.NoError(t, err)
	require.Equal(t, "https://acct.blob.core.windows.net/reports/skillbench/250109-1405-sonnet-benchmark.md", url)
}

func TestPublish_HTMLContentType(t *testing.T) {
	p, client := testPublisher(t)

	client.EXPECT().UploadBuffer(gomock.Any(), gomock.Any(), "skillbench/r.html", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, container, name string, data []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error) {
			require.Equal(t, "text/html; charset=utf-8", *o.HTTPHeaders.BlobContentType)
			return azblob.UploadBufferResponse{}, nil
		})

	_, err := p.Publish(context.Background(), "r.html", []byte("<html>"))
	require.NoError(t, err)
}

func TestPublish_UploadError(t *testing.T) {
	p, client := testPublisher(t)

	client.EXPECT().UploadBuffer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(azblob.UploadBufferResponse{}, errors.New("403 forbidden"))

	_, err := p.Publish(context.Background(), "r.md", nil)
	require.ErrorContains(t, err, "uploading skillbench/r.md to container reports: 403 forbidden")
}

func TestNew_NotConfigured(t *testing.T) {
	_, err := New(projectconfig.PublishConfig{})
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(projectconfig.PublishConfig{AzureBlob: &projectconfig.AzureBlobConfig{AccountURL: "https://x"}})
	require.ErrorIs(t, err, ErrNotConfigured)
}
