package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
)

// MaxInlineImageBytes caps images kept inline when no bucket is configured.
const MaxInlineImageBytes = 512 * 1024

// DataURLStore keeps uploads inline as data: URLs. It is used when R2 is not
// configured.
type DataURLStore struct{}

func (DataURLStore) Upload(_ context.Context, _ string, contentType string, body io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(body, MaxInlineImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(raw) > MaxInlineImageBytes {
		return "", fmt.Errorf("image exceeds %d bytes", MaxInlineImageBytes)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
