package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/nightmare-tech/chatty-insurance/internal/constants"
)

// EvaluateWithDocs uploads the files at paths and runs a one-time query
// against them. The multipart body carries one "query" text field and one
// "files" part per document, named by base filename only so local directory
// structure never reaches the server.
//
// Every opened file handle is closed exactly once on every exit path. If
// any file fails to open, nothing is sent and the error surfaces as a local
// file error, distinct from both API and connection errors.
func (c *Client) EvaluateWithDocs(ctx context.Context, token, query string, paths []string) (json.RawMessage, error) {
	body, contentType, err := buildUploadBody(query, paths)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, constants.DynamicPath, body, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	respBody, err := c.do(req, "Unknown error")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(respBody), nil
}

// buildUploadBody assembles the multipart request body from the staged
// files. Handles are released by the deferred cleanup regardless of which
// step fails.
func buildUploadBody(query string, paths []string) (*bytes.Buffer, string, error) {
	var handles []*os.File
	defer func() {
		for _, f := range handles {
			_ = f.Close()
		}
	}()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open staged document %s: %w", path, err)
		}
		handles = append(handles, f)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("query", query); err != nil {
		return nil, "", fmt.Errorf("failed to write query field: %w", err)
	}

	for _, f := range handles {
		part, err := writer.CreateFormFile("files", filepath.Base(f.Name()))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("failed to read staged document %s: %w", f.Name(), err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize upload body: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
