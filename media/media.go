// Package media stores uploaded profile pictures on local disk and hands
// back the URL path the stored file is served under.
package media

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// maxEdge bounds the longest edge of a stored picture.
const maxEdge = 512

type Storage struct {
	Dir     string
	BaseURL string
}

func NewStorage(dir string) *Storage {
	return &Storage{Dir: dir, BaseURL: "/uploads"}
}

// SaveProfilePicture validates, downscales and stores an uploaded image,
// returning its public URL path.
func (s *Storage) SaveProfilePicture(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	img = downscale(img)

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	switch ext {
	case ".png":
		err = png.Encode(dst, img)
	default:
		err = jpeg.Encode(dst, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		os.Remove(filepath.Join(s.Dir, name))
		return "", fmt.Errorf("encode image: %w", err)
	}

	return s.BaseURL + "/" + name, nil
}

func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
