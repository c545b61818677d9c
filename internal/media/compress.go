package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	"golang.org/x/image/draw"
)

// MaxPixels bounds width*height of an image Compress will decode.
const MaxPixels = 50_000_000

// Compressed is the outcome of Compress.
type Compressed struct {
	Data    []byte
	Width   int
	Height  int
	Resized bool
}

// Compress downscales JPEG and PNG images whose longest side exceeds
// maxDimension, keeping the aspect ratio, and re-encodes them in their own
// format. Other formats and images within bounds are returned unchanged.
// Images above MaxPixels are rejected before decoding.
func Compress(data []byte, mimeType string, maxDimension, quality int) (Compressed, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if mimeType != "image/jpeg" && mimeType != "image/png" {
		if err != nil {
			return Compressed{Data: data}, nil
		}
		return Compressed{Data: data, Width: cfg.Width, Height: cfg.Height}, nil
	}
	if err != nil {
		return Compressed{}, fmt.Errorf("%w: cannot decode image: %v", ErrUnsupportedType, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Compressed{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrFileTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Compressed{}, fmt.Errorf("%w: cannot decode image: %v", ErrUnsupportedType, err)
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxDimension <= 0 || (w <= maxDimension && h <= maxDimension) {
		return Compressed{Data: data, Width: w, Height: h}, nil
	}

	nw, nh := fit(w, h, maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch mimeType {
	case "image/jpeg":
		if quality <= 0 || quality > 100 {
			quality = 80
		}
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality})
	default:
		err = (&png.Encoder{CompressionLevel: png.BestCompression}).Encode(&buf, dst)
	}
	if err != nil {
		return Compressed{}, fmt.Errorf("media: encode image: %w", err)
	}
	return Compressed{Data: buf.Bytes(), Width: nw, Height: nh, Resized: true}, nil
}

func fit(w, h, limit int) (int, int) {
	if w >= h {
		nh := h * limit / w
		return limit, max(nh, 1)
	}
	nw := w * limit / h
	return max(nw, 1), limit
}
