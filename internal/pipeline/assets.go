package pipeline

import (
	"context"
	"fmt"
)

// AssetSource tags how a reference URL was obtained.
type AssetSource string

const (
	AssetUploaded AssetSource = "uploaded"
	AssetDefault  AssetSource = "default"
)

const uploadFolder = "kie-inputs"

// resolveAsset returns a dereferenceable URL for optional raw bytes: uploaded
// bytes go through the upload capability, absent bytes resolve to the
// configured default unchanged. An upload failure propagates so callers can
// tell a broken upload path apart from a missing asset.
func (p *Pipeline) resolveAsset(ctx context.Context, data []byte, defaultURL, filename string) (string, AssetSource, error) {
	if len(data) == 0 {
		return defaultURL, AssetDefault, nil
	}
	url, err := p.uploader.Upload(ctx, data, filename, uploadFolder)
	if err != nil {
		return "", "", fmt.Errorf("asset upload %s: %w", filename, err)
	}
	return url, AssetUploaded, nil
}
