package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// GetAttachmentID returns the ID of the attachment called filename on a page,
// or "" when there is none.
func (api *API) GetAttachmentID(ctx context.Context, pageID int, filename string) (string, error) {
	ep, err := api.getAttachmentsEndpoint(AttachmentsQuery{ID: pageID, Filename: filename})
	if err != nil {
		return "", err
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return "", fmt.Errorf("confluence: couldn't list attachments of page %d: %w", pageID, err)
	}

	var resp AttachmentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].ID, nil
}

// UploadAttachment attaches a local file to a page, adding a new version when
// an attachment of that name exists. Remote references and missing files are
// skipped and reported as false.
func (api *API) UploadAttachment(ctx context.Context, pageID int, path, comment string) (bool, error) {
	if strings.Contains(path, "http") {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		api.logger().Printf("error: file %s cannot be found, skipping: %v", path, err)
		return false, nil
	}
	defer f.Close()

	if fi, err := f.Stat(); err != nil || fi.IsDir() {
		api.logger().Printf("error: %s is not a file, skipping", path)
		return false, nil
	}

	filename := filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachmentID, err := api.GetAttachmentID(ctx, pageID, filename)
	if err != nil {
		return false, err
	}

	ep, err := api.getUploadAttachmentEndpoint(pageID, attachmentID)
	if err != nil {
		return false, err
	}

	api.logger().Printf("uploading attachment %s...", filename)
	if _, err := api.upload(ctx, ep, filename, contentType, f, map[string]string{"comment": comment}); err != nil {
		return false, fmt.Errorf("confluence: couldn't upload %s to page %d: %w", filename, pageID, err)
	}
	return true, nil
}
