package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
)

// ErrInvalidFilePath is returned for paths that would leave the static prefix
var ErrInvalidFilePath = errors.New("invalid file path")

// File is a streamed backend file; the caller must Close it
type File struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

func (f *File) Close() error {
	return f.Body.Close()
}

// FileURL resolves a stored filePath against the static files origin
func (c *Client) FileURL(filePath string) (string, error) {
	clean := strings.TrimLeft(strings.ReplaceAll(filePath, "\\", "/"), "/")
	if clean == "" {
		return "", ErrInvalidFilePath
	}
	for _, seg := range strings.Split(clean, "/") {
		if seg == ".." {
			return "", ErrInvalidFilePath
		}
	}
	return c.filesBaseURL + "/" + clean, nil
}

// OpenFile streams a stored file through the portal
func (c *Client) OpenFile(ctx context.Context, filePath string) (*File, error) {
	target, err := c.FileURL(filePath)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	resp, err := c.open(ctx, request{
		method: http.MethodGet,
		route:  "/files",
		path:   "/" + strings.TrimLeft(filePath, "/"),
		url:    target,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFor(filePath)
	}
	return &File{
		Body:          &cancelOnClose{ReadCloser: resp.Body, cancel: cancel},
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
	}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
