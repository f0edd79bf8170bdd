package handler

import (
	"mime/multipart"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-service/internal/model"
)

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// formUpload extracts the uploaded file from a multipart request. The returned
// closer must be closed after the service call consumed the reader.
func formUpload(c echo.Context, field string) (*model.Upload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	src, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &model.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Content:     src,
	}, src, nil
}
