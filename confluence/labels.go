package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/exp/slices"
)

const defaultLabelPrefix = "global"

// UpdateLabels adds the labels a page doesn't carry yet. Existing labels are
// left alone.
func (api *API) UpdateLabels(ctx context.Context, pageID int, labels []string) error {
	existing, err := api.pageLabels(ctx, pageID)
	if err != nil {
		return fmt.Errorf("confluence: couldn't find existing labels of page %d: %w", pageID, err)
	}

	for _, label := range labels {
		if slices.Contains(existing, label) {
			continue
		}
		api.logger().Printf("adding label %q to page %d", label, pageID)
		if err := api.addLabel(ctx, pageID, label); err != nil {
			return err
		}
		existing = append(existing, label)
	}
	return nil
}

func (api *API) pageLabels(ctx context.Context, pageID int) ([]string, error) {
	query := PageLabelsQuery{ID: pageID, Limit: 200}

	var names []string
	for {
		ep, err := api.getPageLabelsEndpoint(query)
		if err != nil {
			return nil, err
		}
		body, err := api.request(ctx, http.MethodGet, ep, nil)
		if err != nil {
			return nil, err
		}

		var resp LabelsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
		}
		for _, l := range resp.Results {
			names = append(names, l.Name)
		}

		if resp.Links.Next == "" {
			return names, nil
		}
		if query.Cursor, err = nextCursor(resp.Links.Next); err != nil {
			return nil, err
		}
	}
}

// GetLabelInfo looks a label up site-wide. An unknown label yields ErrNotFound.
func (api *API) GetLabelInfo(ctx context.Context, name string) (*LabelInfo, error) {
	ep, err := api.getLabelInfoEndpoint(LabelInfoQuery{Name: name})
	if err != nil {
		return nil, err
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, err
	}

	var info LabelInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}
	return &info, nil
}

func (api *API) addLabel(ctx context.Context, pageID int, name string) error {
	prefix := defaultLabelPrefix
	info, err := api.GetLabelInfo(ctx, name)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return fmt.Errorf("confluence: couldn't look up label %q: %w", name, err)
	case info.Label.Prefix != "":
		prefix = info.Label.Prefix
	}

	ep, err := api.getAddLabelEndpoint(pageID)
	if err != nil {
		return err
	}
	if _, err := api.request(ctx, http.MethodPost, ep, labelRequest{Prefix: prefix, Name: name}); err != nil {
		return fmt.Errorf("confluence: couldn't add label %q to page %d: %w", name, pageID, err)
	}
	return nil
}
