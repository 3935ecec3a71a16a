package common

import "strings"

// AssetKind distinguishes the two asset classes a post carries.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
)

func (k AssetKind) String() string {
	return string(k)
}

func (k AssetKind) IsValid() bool {
	return k == AssetKindImage || k == AssetKindVideo
}

// DetectAssetKind maps a MIME type onto an asset kind. Unknown types fall
// back to image.
func DetectAssetKind(mimeType string) AssetKind {
	lower := strings.ToLower(mimeType)
	if strings.HasPrefix(lower, "video/") {
		return AssetKindVideo
	}
	return AssetKindImage
}
