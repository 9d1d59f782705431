package utils

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrEmptyImage       = errors.New("image is empty")
	ErrInvalidImage     = errors.New("image is not valid base64")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var allowedImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded still image from either a data URL or raw base64.
type Image struct {
	ContentType string
	Data        []byte
}

func (i Image) Extension() string {
	return allowedImageTypes[i.ContentType]
}

// DataURL re-encodes the image as data:<type>;base64,<payload>.
func (i Image) DataURL() string {
	return "data:" + i.ContentType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// DecodeImage accepts "data:image/png;base64,...." or a bare base64 payload. The content
// type is sniffed from the bytes so a mislabelled prefix cannot smuggle other content.
func DecodeImage(input string) (Image, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Image{}, ErrEmptyImage
	}

	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.HasSuffix(s[:comma], ";base64") {
			return Image{}, ErrInvalidImage
		}
		s = s[comma+1:]
	}
	s = strings.Join(strings.Fields(s), "")

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return Image{}, ErrInvalidImage
		}
	}
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}

	contentType := http.DetectContentType(data)
	if _, ok := allowedImageTypes[contentType]; !ok {
		return Image{}, ErrUnsupportedImage
	}
	return Image{ContentType: contentType, Data: data}, nil
}
