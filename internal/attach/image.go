// ABOUTME: Image attachments encoded as data URLs
// ABOUTME: Builds and parses data:<mime>;base64,<payload> strings
package attach

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// Image is an attached picture ready to send inline
type Image struct {
	MIMEType string
	Data     string // base64 payload
	Source   string // file path or URL it was loaded from
}

// NewImage encodes raw bytes, sniffing the MIME type from the content
func NewImage(data []byte, source string) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("attachment %s is empty", source)
	}

	mimeType := http.DetectContentType(data)
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return Image{}, fmt.Errorf("attachment %s is not an image (%s)", source, mimeType)
	}

	return Image{
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
		Source:   source,
	}, nil
}

// DataURL returns the image as a data URL
func (img Image) DataURL() string {
	return "data:" + img.MIMEType + ";base64," + img.Data
}

// ParseDataURL splits a base64 data URL into its MIME type and payload.
// A string without a data: prefix is treated as a bare JPEG payload.
func ParseDataURL(s string) (Image, error) {
	if !strings.HasPrefix(s, "data:") {
		if s == "" {
			return Image{}, fmt.Errorf("empty data URL")
		}
		return Image{MIMEType: "image/jpeg", Data: s}, nil
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return Image{}, fmt.Errorf("malformed data URL: missing payload")
	}

	mimeType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return Image{}, fmt.Errorf("unsupported data URL encoding %q", encoding)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return Image{MIMEType: mimeType, Data: payload}, nil
}
