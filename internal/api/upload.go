package api

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/mummysfood/backend/internal/service"
)

// readUpload reads at most one byte past the size limit so oversized files are still rejected by the image service
func readUpload(fh *multipart.FileHeader) (*service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return &service.Upload{Filename: fh.Filename, Data: data}, nil
}
