package confluence

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

func (api *API) ListAllSpaces(ctx context.Context, orgName string, includePersonal bool) (map[string]Space, error) {
	spaces := map[string]Space{}

	query := SpacesQuery{
		Limit: 10,
	}

	if !includePersonal {
		// The `type` parameter may be "global", "personal", or nothing at all for both.  Leaving it
		// empty gives us everything, so we only set this if we _do not_ intend to include personal
		// spaces in our query.
		query.Type = "global"
	}

	for {
		allspaces, err := api.spacesPage(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list spaces: %w", err)
		}

		for _, space := range allspaces.Results {
			space.Org = orgName
			spaces[space.Key] = space
		}

		if allspaces.Links.Next == "" {
			break
		}
		query.Cursor, err = nextCursor(allspaces.Links.Next)
		if err != nil {
			return nil, err
		}
	}

	return spaces, nil
}

func (api *API) spacesPage(ctx context.Context, query SpacesQuery) (*AllSpaces, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return api.getSpaces(ctx, query)
}

// nextCursor pulls the cursor out of a _links.next URL.
func nextCursor(next string) (string, error) {
	q, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
	}
	cursor := q.Query().Get("cursor")
	if cursor == "" {
		return "", fmt.Errorf("confluence: expected parameter 'cursor' was empty")
	}
	return cursor, nil
}

// SpaceID looks up the numeric ID of SpaceKey. The answer, and the space's
// home page, are cached for the lifetime of the API.
func (api *API) SpaceID(ctx context.Context) (int, error) {
	space, err := api.lookupSpace(ctx)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(space.ID)
}

// HomepageID is the root page of SpaceKey.
func (api *API) HomepageID(ctx context.Context) (int, error) {
	space, err := api.lookupSpace(ctx)
	if err != nil {
		return 0, err
	}
	if space.HomepageID == "" {
		return 0, fmt.Errorf("%w: homepage of space %q", ErrNotFound, api.SpaceKey)
	}
	return strconv.Atoi(space.HomepageID)
}

func (api *API) lookupSpace(ctx context.Context) (*Space, error) {
	api.spaceMu.Lock()
	defer api.spaceMu.Unlock()

	if api.space != nil {
		return api.space, nil
	}
	if api.SpaceKey == "" {
		return nil, fmt.Errorf("confluence: no space key configured")
	}

	spaces, err := api.getSpaces(ctx, SpacesQuery{Keys: []string{api.SpaceKey}})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't look up space %q: %w", api.SpaceKey, err)
	}
	if len(spaces.Results) == 0 {
		return nil, fmt.Errorf("%w: space %q", ErrNotFound, api.SpaceKey)
	}

	space := spaces.Results[0]
	if _, err := strconv.Atoi(space.ID); err != nil {
		return nil, fmt.Errorf("confluence: space %q has non-numeric id %q", api.SpaceKey, space.ID)
	}
	if _, err := strconv.Atoi(space.HomepageID); space.HomepageID != "" && err != nil {
		return nil, fmt.Errorf("confluence: space %q has non-numeric homepage id %q", api.SpaceKey, space.HomepageID)
	}
	api.space = &space
	return api.space, nil
}
