package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectAssetKind(t *testing.T) {
	require.Equal(t, AssetKindVideo, DetectAssetKind("video/mp4"))
	require.Equal(t, AssetKindVideo, DetectAssetKind("video/webm"))
	require.Equal(t, AssetKindImage, DetectAssetKind("image/png"))
	require.Equal(t, AssetKindImage, DetectAssetKind("application/octet-stream"))
}

func TestAssetKindIsValid(t *testing.T) {
	require.True(t, AssetKindImage.IsValid())
	require.True(t, AssetKindVideo.IsValid())
	require.False(t, AssetKind("audio").IsValid())
}
