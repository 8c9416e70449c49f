package constants

import "strings"

// AllowedImageExtensions holds the image extensions accepted for vision
// extraction uploads.
var AllowedImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
}

// MaxVisionMBDefault caps the encoded image size sent to the vision service.
const MaxVisionMBDefault = 10

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MediaTypeForExt returns the media type to declare for an image payload.
// Unknown extensions default to JPEG, which is what phone cameras produce.
func MediaTypeForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
