package extraction

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// defaultImageMIMEType is assumed for receipt photos whose type can't be told.
const defaultImageMIMEType = "image/jpeg"

// Input is what the user typed or photographed. Exactly one of Text or
// Image is set.
type Input struct {
	Text     string
	Image    []byte
	MIMEType string
}

// TextInput wraps free text such as "Paid 450 for pizza at Dominos".
func TextInput(text string) Input {
	return Input{Text: text}
}

// ImageInput wraps raw image bytes. An empty mimeType is sniffed.
func ImageInput(data []byte, mimeType string) Input {
	if mimeType == "" {
		mimeType = sniffImageType(data)
	}
	return Input{Image: data, MIMEType: mimeType}
}

// ImageFromDataURL decodes a base64 image, with or without the
// "data:image/png;base64," header browsers put in front of it.
func ImageFromDataURL(s string) (Input, error) {
	mimeType := ""
	payload := s
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, "base64,"); i != -1 {
			header := strings.TrimPrefix(s[:i], "data:")
			mimeType = strings.TrimSuffix(header, ";")
			payload = s[i+len("base64,"):]
		}
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return Input{}, fmt.Errorf("ImageFromDataURL: decode base64: %w", err)
	}
	return ImageInput(data, mimeType), nil
}

// IsImage reports whether the input carries an image.
func (in Input) IsImage() bool {
	return len(in.Image) > 0
}

// Kind names the input for logs and audit rows.
func (in Input) Kind() string {
	if in.IsImage() {
		return "image"
	}
	return "text"
}

func (in Input) validate() error {
	if in.IsImage() {
		if in.Text != "" {
			return fmt.Errorf("input has both text and an image")
		}
		return nil
	}
	if strings.TrimSpace(in.Text) == "" {
		return fmt.Errorf("input is empty")
	}
	return nil
}

func sniffImageType(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return defaultImageMIMEType
}
