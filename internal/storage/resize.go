package storage

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

const (
	MaxImageWidth  = 800
	MaxImageHeight = 600
)

// Normalize 将超出 800x600 的图片按比例缩小，无法解码的格式原样返回
func Normalize(data []byte, contentType string) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, contentType, nil
	}

	b := img.Bounds()
	if b.Dx() <= MaxImageWidth && b.Dy() <= MaxImageHeight {
		return data, contentType, nil
	}

	scaled := resize.Thumbnail(MaxImageWidth, MaxImageHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, scaled)
		contentType = "image/png"
	case "gif":
		err = gif.Encode(&buf, scaled, nil)
		contentType = "image/gif"
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 85})
		contentType = "image/jpeg"
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), contentType, nil
}
