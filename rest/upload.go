package rest

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

	"github.com/starforge/scatter-go/model"
)

// UploadAttachment uploads a file as a channel attachment via
// multipart/form-data. Uploads are not retried.
func (c *Client) UploadAttachment(ctx context.Context, spaceID, channelID, filePath string) (*model.Attachment, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	return c.UploadAttachmentReader(ctx, spaceID, channelID, filepath.Base(filePath), f)
}

// UploadAttachmentReader uploads attachment content from a reader.
func (c *Client) UploadAttachmentReader(ctx context.Context, spaceID, channelID, filename string, r io.Reader) (*model.Attachment, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy attachment content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	url := c.baseURL + channelPath(spaceID, channelID) + "/attachments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, c.statusError(resp, body)
	}

	var attachment model.Attachment
	if err := json.Unmarshal(body, &attachment); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &attachment, nil
}
