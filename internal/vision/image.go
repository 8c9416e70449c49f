package vision

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tiptally/tiptally/constants"
)

// Image is an encoded, transportable picture ready for a vision request.
type Image struct {
	DataURL   string
	MediaType string
	SizeBytes int64
}

// LoadImage reads a local file into a base64 data URL. The media type comes
// from the file extension; unknown extensions are declared as JPEG.
func LoadImage(path string) (Image, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Image{}, fmt.Errorf("stat image: %w", err)
	}
	if st.IsDir() {
		return Image{}, fmt.Errorf("image path is a directory: %s", path)
	}
	if st.Size() > int64(constants.MaxVisionMBDefault)*1024*1024 {
		return Image{}, fmt.Errorf("image too large: %d bytes", st.Size())
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}

	mt := constants.MediaTypeForExt(filepath.Ext(path))
	data := base64.StdEncoding.EncodeToString(b)
	return Image{
		DataURL:   "data:" + mt + ";base64," + data,
		MediaType: mt,
		SizeBytes: st.Size(),
	}, nil
}
