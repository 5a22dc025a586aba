package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetFolder finds a folder by title below the space home page. It returns 0
// when no such folder exists.
func (api *API) GetFolder(ctx context.Context, name string) (int, error) {
	homepage, err := api.HomepageID(ctx)
	if err != nil {
		return 0, err
	}

	api.logger().Printf("retrieving folder information: %s", name)

	query := DescendantsQuery{ID: homepage, Depth: 5}
	for {
		ep, err := api.getDescendantsEndpoint(query)
		if err != nil {
			return 0, err
		}
		body, err := api.request(ctx, http.MethodGet, ep, nil)
		if err != nil {
			return 0, fmt.Errorf("confluence: couldn't list descendants of page %d: %w", homepage, err)
		}

		var resp DescendantsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return 0, fmt.Errorf("confluence: couldn't parse json response: %w", err)
		}

		for _, item := range resp.Results {
			if item.Title == name && item.Type == "folder" {
				var id int
				if _, err := fmt.Sscan(item.ID, &id); err != nil {
					return 0, fmt.Errorf("confluence: folder %q has bad id %q", name, item.ID)
				}
				return id, nil
			}
		}

		if resp.Links.Next == "" {
			return 0, nil
		}
		if query.Cursor, err = nextCursor(resp.Links.Next); err != nil {
			return 0, err
		}
	}
}
