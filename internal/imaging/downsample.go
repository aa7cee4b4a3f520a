// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

/*
Package imaging shrinks photo payloads before they enter the embedded store.

The embedded adapter persists images inside a quota-bounded blob, so every
byte matters. Downsampling is opportunistic: a payload that cannot be decoded
or re-encoded for any reason is passed through unchanged rather than rejected.
*/
package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"strings"

	// Register decoders for the payload formats cameras actually produce.
	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// # Downsampling Bounds

const (
	// MaxPixelWidth is the widest an image is allowed to stay. Wider images
	// are scaled down preserving aspect ratio.
	MaxPixelWidth = 400

	// JPEGQuality is the fixed lossy re-encode quality.
	JPEGQuality = 60
)

const dataURLPrefix = "data:image/jpeg;base64,"

/*
Downsample bounds an image payload to [MaxPixelWidth] and re-encodes it as
JPEG at [JPEGQuality].

Description: The payload is a base64 data URL, the format the capture layer
hands over and the format the store persists. Scaling uses approximate
bilinear interpolation, plenty for thumbnail-grade storage copies. Any
failure at any stage returns the ORIGINAL payload and no error; the caller
stores a bigger image, not nothing.

Parameters:
  - payload: string (base64 data URL, any registered image format)

Returns:
  - string: Downsampled data URL, or the untouched original on failure
*/
func Downsample(payload string) string {
	raw, ok := decodeDataURL(payload)
	if !ok {
		return payload
	}

	source, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return payload
	}

	bounds := source.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return payload
	}

	targetWidth := width
	targetHeight := height
	if width > MaxPixelWidth {
		targetWidth = MaxPixelWidth
		targetHeight = height * MaxPixelWidth / width
		if targetHeight < 1 {
			targetHeight = 1
		}
	}

	scaled := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), source, bounds, xdraw.Over, nil)

	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, scaled, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return payload
	}

	return dataURLPrefix + base64.StdEncoding.EncodeToString(encoded.Bytes())
}

// decodeDataURL strips the data URL header and decodes the base64 body.
// A payload without the expected shape reports !ok instead of erroring.
func decodeDataURL(payload string) ([]byte, bool) {
	_, body, found := strings.Cut(payload, ";base64,")
	if !found || !strings.HasPrefix(payload, "data:image/") {
		return nil, false
	}

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, false
	}
	return raw, true
}
