// Package capture turns a screenshot on disk into the bytes, MIME type and
// file name that get attached to an issue.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// Image is one captured screenshot.
type Image struct {
	Source     string // path or label the image came from
	Data       []byte
	Format     string // detected format of Data, e.g. "png"
	CapturedAt time.Time
	User       string
	Computer   string

	decoded image.Image
}

// Load reads and sniffs an image file. The file's modification time is used
// as the capture time.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	capturedAt := time.Now()
	if info, err := os.Stat(path); err == nil {
		capturedAt = info.ModTime()
	}

	img, err := FromBytes(path, data, capturedAt)
	if err != nil {
		return nil, err
	}

	if u, err := user.Current(); err == nil {
		img.User = u.Username
	}
	if host, err := os.Hostname(); err == nil {
		img.Computer = host
	}
	return img, nil
}

// FromBytes wraps already loaded image data.
func FromBytes(source string, data []byte, capturedAt time.Time) (*Image, error) {
	detected := mimetype.Detect(data)

	format := ""
	for f, m := range mimeTypes {
		if detected.Is(m) {
			format = f
			break
		}
	}
	if format == "" {
		return nil, fmt.Errorf("%s: unsupported image type %s", source, detected.String())
	}

	return &Image{
		Source:     source,
		Data:       data,
		Format:     format,
		CapturedAt: capturedAt,
	}, nil
}

// FileName expands the placeholders of template:
// <Date>, <Time>, <DateTime>, <User>, <Computer> and <Source>.
func (i *Image) FileName(template string) string {
	base := filepath.Base(i.Source)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	r := strings.NewReplacer(
		"<DateTime>", i.CapturedAt.Format("2006-01-02 15-04-05"),
		"<Date>", i.CapturedAt.Format("2006-01-02"),
		"<Time>", i.CapturedAt.Format("15-04-05"),
		"<User>", i.User,
		"<Computer>", i.Computer,
		"<Source>", base,
	)
	return strings.TrimSpace(r.Replace(template))
}

// Bytes returns the image encoded as format. Data is returned untouched
// when it already is in that format.
func (i *Image) Bytes(format string) ([]byte, error) {
	if format == i.Format {
		return i.Data, nil
	}

	if i.decoded == nil {
		img, _, err := image.Decode(bytes.NewReader(i.Data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s image: %w", i.Format, err)
		}
		i.decoded = img
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, i.decoded)
	case "jpg":
		err = jpeg.Encode(&buf, i.decoded, &jpeg.Options{Quality: 90})
	case "gif":
		err = gif.Encode(&buf, i.decoded, nil)
	case "bmp":
		err = bmp.Encode(&buf, i.decoded)
	case "tiff":
		err = tiff.Encode(&buf, i.decoded, nil)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// MimeType returns the MIME type sent with an attachment of format.
func (i *Image) MimeType(format string) string {
	if m, ok := mimeTypes[format]; ok {
		return m
	}
	return "application/octet-stream"
}

// Extension returns the file extension (without dot) for format.
func (i *Image) Extension(format string) string {
	if format == "" {
		return "png"
	}
	return format
}
