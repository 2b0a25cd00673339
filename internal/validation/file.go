package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxAvatarSize caps avatar uploads at 5MB.
const MaxAvatarSize = 5 << 20

var avatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var avatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ValidateAvatar sniffs the uploaded file's magic bytes and returns its
// detected content type and canonical extension.
func ValidateAvatar(header *multipart.FileHeader) (contentType, ext string, err error) {
	if header.Size > MaxAvatarSize {
		return "", "", fmt.Errorf("file too large: maximum size is %d MB", MaxAvatarSize>>20)
	}

	file, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// http.DetectContentType reads at most 512 bytes
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType = http.DetectContentType(buffer[:n])
	ext, ok := avatarTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("invalid file type (detected: %s)", contentType)
	}

	if !avatarExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		return "", "", fmt.Errorf("invalid file extension: %s", filepath.Ext(header.Filename))
	}

	return contentType, ext, nil
}
