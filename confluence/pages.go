package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// GetPage finds a page by title in SpaceKey. A page that doesn't exist yields
// the zero PageInfo and no error.
func (api *API) GetPage(ctx context.Context, title string) (PageInfo, error) {
	spaceID, err := api.SpaceID(ctx)
	if err != nil {
		return PageInfo{}, err
	}

	api.logger().Printf("retrieving page information: %s", title)
	pages, err := api.GetPages(ctx, GetPagesQuery{
		SpaceID: []int{spaceID},
		Title:   title,
		Limit:   1,
	})
	if errors.Is(err, ErrNotFound) {
		return PageInfo{}, nil
	}
	if err != nil {
		return PageInfo{}, err
	}
	if len(pages.Results) == 0 {
		return PageInfo{}, nil
	}

	return pages.Results[0].Info(api.URL())
}

func (api *API) CreatePage(ctx context.Context, title, body string, parentID int) (PageInfo, error) {
	spaceID, err := api.SpaceID(ctx)
	if err != nil {
		return PageInfo{}, err
	}

	ep, err := api.getPagesEndpoint(GetPagesQuery{})
	if err != nil {
		return PageInfo{}, fmt.Errorf("confluence: couldn't get pages endpoint: %w", err)
	}

	page := createPageRequest{
		SpaceID: strconv.Itoa(spaceID),
		Status:  "current",
		Title:   title,
		Body:    Storage{Representation: "storage", Value: body},
	}
	if parentID > 0 {
		page.ParentID = strconv.Itoa(parentID)
	}

	resp, err := api.request(ctx, http.MethodPost, ep, page)
	if err != nil {
		return PageInfo{}, fmt.Errorf("confluence: couldn't create page %q: %w", title, err)
	}

	var created Page
	if err := json.Unmarshal(resp, &created); err != nil {
		return PageInfo{}, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	info, err := created.Info(api.URL())
	if err != nil {
		return PageInfo{}, fmt.Errorf("confluence: created page has bad id: %w", err)
	}
	api.logger().Printf("page created in space %d with id %d: %s", info.SpaceID, info.ID, info.Link)
	return info, nil
}

// UpdatePage replaces the body of a page. version is the page's current
// version; the update is stored as version+1, marked as a minor edit.
func (api *API) UpdatePage(ctx context.Context, id int, title, body string, version int, parentID int) error {
	spaceID, err := api.SpaceID(ctx)
	if err != nil {
		return err
	}

	ep, err := api.getPageEndpoint(id)
	if err != nil {
		return err
	}

	page := updatePageRequest{
		ID:      strconv.Itoa(id),
		Status:  "current",
		Title:   title,
		SpaceID: strconv.Itoa(spaceID),
		Body:    Storage{Representation: "storage", Value: body},
		Version: Version{Number: version + 1, MinorEdit: true},
	}
	if parentID > 0 {
		page.ParentID = strconv.Itoa(parentID)
	}

	resp, err := api.request(ctx, http.MethodPut, ep, page)
	if err != nil {
		return fmt.Errorf("confluence: couldn't update page %d: %w", id, err)
	}

	var updated Page
	if err := json.Unmarshal(resp, &updated); err == nil {
		api.logger().Printf("page updated: %s%s", api.URL(), updated.Links.WebUI)
	}
	return nil
}

func (api *API) DeletePage(ctx context.Context, id int) error {
	ep, err := api.getPageEndpoint(id)
	if err != nil {
		return err
	}

	if _, err := api.request(ctx, http.MethodDelete, ep, nil); err != nil {
		return fmt.Errorf("confluence: couldn't delete page %d: %w", id, err)
	}
	api.logger().Printf("page %d deleted", id)
	return nil
}
