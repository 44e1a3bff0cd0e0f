// Package inputs converts (prompt, image) pairs into the ordered
// multimodal part sequences the scoring model consumes.
package inputs

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/zacharyhorvitz/fk-diffusion-steering/api"
)

// ErrInvalidImage is returned when an image cannot be decoded or re-encoded
var ErrInvalidImage = errors.New("invalid image")

const pngMIMEType = "image/png"

// Prepare converts one (prompt, image) pair into its part sequence:
// the text part first, then the PNG-encoded image part. The order is a
// protocol contract with the scoring model and must not change.
func Prepare(prompt string, img image.Image) ([]api.Part, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return []api.Part{
		{Text: prompt},
		{Data: data, MIMEType: pngMIMEType},
	}, nil
}

// Decode decodes raster image bytes in any registered format
// (PNG, JPEG, GIF).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// EncodePNG normalizes img to three-channel RGB and encodes it as PNG
// in memory. Palette information is resolved to full color and alpha is
// flattened against a white background, so the encoded image is always
// opaque.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty bounds", ErrInvalidImage)
	}

	rgb := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgb, rgb.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(rgb, rgb.Bounds(), img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return buf.Bytes(), nil
}
