package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// azureStorage fetches source image bytes from Azure Blob Storage. The blob
// URL carries the container in its path and the blob name in the "blob"
// query parameter.
type azureStorage struct {
	client *azblob.Client
}

func NewAzureByteFetcher(accountName string, accountKey string) (ByteFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client}, nil
}

func (s *azureStorage) FetchBytes(ctx context.Context, blobURL string) ([]byte, error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}
	if len(parsedURL.Path) < 2 {
		return nil, fmt.Errorf("blob URL missing container path")
	}

	containerName := parsedURL.Path[1:] // Remove leading slash
	blobName := parsedURL.Query().Get("blob")

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	return io.ReadAll(retryReader)
}

// IsAzureBlobURL reports whether a source URL points at Azure Blob Storage
func IsAzureBlobURL(sourceURL string) bool {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsedURL.Host, ".blob.core.windows.net")
}
