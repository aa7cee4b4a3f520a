// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

package imaging_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhanle/photolens/internal/imaging"
)

// pngDataURL builds a base64 PNG data URL of the given dimensions.
func pngDataURL(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes())
}

// decodeResult decodes a data URL produced by Downsample back into an image.
func decodeResult(t *testing.T, payload string) image.Image {
	t.Helper()

	_, body, found := strings.Cut(payload, ";base64,")
	require.True(t, found)

	raw, err := base64.StdEncoding.DecodeString(body)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return decoded
}

/*
TestDownsample_BoundsWideImage checks that an oversized image comes back at
the maximum width with its aspect ratio preserved, re-encoded as JPEG.
*/
func TestDownsample_BoundsWideImage(t *testing.T) {
	original := pngDataURL(t, 800, 600)

	result := imaging.Downsample(original)
	require.True(t, strings.HasPrefix(result, "data:image/jpeg;base64,"))

	decoded := decodeResult(t, result)
	assert.Equal(t, imaging.MaxPixelWidth, decoded.Bounds().Dx())
	assert.Equal(t, 300, decoded.Bounds().Dy())
}

/*
TestDownsample_KeepsSmallImageDimensions checks that an image already within
bounds keeps its dimensions (only the encoding changes).
*/
func TestDownsample_KeepsSmallImageDimensions(t *testing.T) {
	original := pngDataURL(t, 120, 90)

	result := imaging.Downsample(original)
	decoded := decodeResult(t, result)
	assert.Equal(t, 120, decoded.Bounds().Dx())
	assert.Equal(t, 90, decoded.Bounds().Dy())
}

/*
TestDownsample_FallsBackOnGarbage confirms the pass-through contract: any
payload that cannot be processed is returned byte-for-byte unchanged.
*/
func TestDownsample_FallsBackOnGarbage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not_a_data_url", "just some text"},
		{"bad_base64", "data:image/png;base64,!!!not-base64!!!"},
		{"not_an_image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.payload, imaging.Downsample(tt.payload))
		})
	}
}
