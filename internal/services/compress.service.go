package services

import (
	"bytes"
	"strings"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/disintegration/imaging"
)

const (
	compressMaxDimension = 1920
	compressJPEGQuality  = 80
)

// CompressService recompresses images before upload, trading fidelity for
// transfer size and storage cost. Non-image payloads pass through untouched.
type CompressService struct {
	log logger.Logger
}

func NewCompressService() *CompressService {
	return &CompressService{
		log: logger.New("compressService"),
	}
}

// Compress resizes an image to fit inside 1920x1920 without upscaling and
// re-encodes it as JPEG at quality 80. Any decode or encode failure falls
// back to the original bytes rather than failing the upload.
func (s *CompressService) Compress(data []byte, mimeType string) []byte {
	if !strings.HasPrefix(mimeType, "image/") {
		return data
	}

	log := s.log.Function("Compress")

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.Warn("failed to decode image, uploading original", "error", err)
		return data
	}

	// Fit never enlarges an image that is already inside the bounding box.
	fitted := imaging.Fit(img, compressMaxDimension, compressMaxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(compressJPEGQuality)); err != nil {
		log.Warn("failed to encode image, uploading original", "error", err)
		return data
	}

	log.Debug("compressed image",
		"originalBytes", len(data),
		"compressedBytes", buf.Len(),
	)
	return buf.Bytes()
}
