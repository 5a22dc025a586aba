package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GetPageProperties lists all content properties of a page.
func (api *API) GetPageProperties(ctx context.Context, pageID int) ([]Property, error) {
	ep, err := api.getPropertiesEndpoint(pageID)
	if err != nil {
		return nil, err
	}

	api.logger().Printf("retrieving page property information: %d", pageID)

	var props []Property
	for {
		body, err := api.request(ctx, http.MethodGet, ep, nil)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list properties of page %d: %w", pageID, err)
		}

		var resp PropertiesResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
		}
		props = append(props, resp.Results...)

		if resp.Links.Next == "" {
			return props, nil
		}
		cursor, err := nextCursor(resp.Links.Next)
		if err != nil {
			return nil, err
		}
		ep.RawQuery = url.Values{"cursor": {cursor}}.Encode()
	}
}

// UpdatePageProperty writes one property. An update without ID creates the
// property, otherwise the existing one is replaced at the given version.
func (api *API) UpdatePageProperty(ctx context.Context, pageID int, prop PropertyUpdate) error {
	req := propertyRequest{
		Key:     prop.Key,
		Value:   prop.Value,
		Version: Version{Number: prop.Version, MinorEdit: true},
	}

	var (
		ep     *url.URL
		err    error
		method string
	)
	if prop.ID != "" {
		method = http.MethodPut
		ep, err = api.getPropertyEndpoint(pageID, prop.ID)
		api.logger().Printf("updating property %s on page %d: %s=%v", prop.ID, pageID, prop.Key, prop.Value)
	} else {
		method = http.MethodPost
		ep, err = api.getPropertiesEndpoint(pageID)
		api.logger().Printf("adding property to page %d: %s=%v", pageID, prop.Key, prop.Value)
	}
	if err != nil {
		return err
	}

	if _, err := api.request(ctx, method, ep, req); err != nil {
		return fmt.Errorf("confluence: unable to set property %s on page %d: %w", prop.Key, pageID, err)
	}
	return nil
}
