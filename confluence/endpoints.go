package confluence

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getUserByIDEndpoint returns the (v1 but supported) API endpoint to fetch one user:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-get
func (a *API) getUserByIDEndpoint(opts GetUserByIDQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("confluence: please provide ID to get user")
	}
	return a.endpointWithQuery("rest/api/user", opts)
}

// getPageByIDEndpoint returns the (v2) API endpoint to download one page:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-id-get
func (a *API) getPageByIDEndpoint(opts GetPageByIDQuery) (*url.URL, error) {
	if opts.ID < 1 {
		return nil, fmt.Errorf("confluence: please provide ID to get page by ID")
	}
	return a.endpointWithQuery(fmt.Sprintf("api/v2/pages/%d", opts.ID), opts)
}

// getPagesEndpoint returns the (v2) API endpoint to list pages, and to create one:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-get
func (a *API) getPagesEndpoint(opts GetPagesQuery) (*url.URL, error) {
	return a.endpointWithQuery("api/v2/pages", opts)
}

// getPageEndpoint is where a single page is updated or deleted:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-id-put
func (a *API) getPageEndpoint(id int) (*url.URL, error) {
	if id < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID")
	}
	return a.resolveEndpoint(fmt.Sprintf("api/v2/pages/%d", id))
}

// getSpaceEndpoint returns the (v2) API endpoint to list spaces
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-space/#api-spaces-get
func (a *API) getSpaceEndpoint(opts SpacesQuery) (*url.URL, error) {
	return a.endpointWithQuery("api/v2/spaces", opts)
}

// getDescendantsEndpoint lists everything below a page, folders included:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-descendants/#api-pages-id-descendants-get
func (a *API) getDescendantsEndpoint(opts DescendantsQuery) (*url.URL, error) {
	if opts.ID < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID to list descendants")
	}
	return a.endpointWithQuery(fmt.Sprintf("api/v2/pages/%d/descendants", opts.ID), opts)
}

// getPropertiesEndpoint lists or creates content properties of a page:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-content-properties/#api-pages-page-id-properties-get
func (a *API) getPropertiesEndpoint(pageID int) (*url.URL, error) {
	if pageID < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID to list properties")
	}
	return a.resolveEndpoint(fmt.Sprintf("api/v2/pages/%d/properties", pageID))
}

// getPropertyEndpoint addresses one existing content property:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-content-properties/#api-pages-page-id-properties-property-id-put
func (a *API) getPropertyEndpoint(pageID int, propertyID string) (*url.URL, error) {
	if propertyID == "" {
		return nil, fmt.Errorf("confluence: please provide property ID")
	}
	return a.resolveEndpoint(fmt.Sprintf("api/v2/pages/%d/properties/%s", pageID, url.PathEscape(propertyID)))
}

// getPageLabelsEndpoint lists the labels of a page:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-label/#api-pages-id-labels-get
func (a *API) getPageLabelsEndpoint(opts PageLabelsQuery) (*url.URL, error) {
	if opts.ID < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID to list labels")
	}
	return a.endpointWithQuery(fmt.Sprintf("api/v2/pages/%d/labels", opts.ID), opts)
}

// getLabelInfoEndpoint looks a label up by name (v1):
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-label-info/#api-wiki-rest-api-label-get
func (a *API) getLabelInfoEndpoint(opts LabelInfoQuery) (*url.URL, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("confluence: please provide label name")
	}
	return a.endpointWithQuery("rest/api/label", opts)
}

// getAddLabelEndpoint adds labels to content (v1):
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content-labels/#api-wiki-rest-api-content-id-label-post
func (a *API) getAddLabelEndpoint(pageID int) (*url.URL, error) {
	if pageID < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID to label")
	}
	return a.resolveEndpoint(fmt.Sprintf("rest/api/content/%d/label", pageID))
}

// getAttachmentsEndpoint lists attachments of a page:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-attachment/#api-pages-id-attachments-get
func (a *API) getAttachmentsEndpoint(opts AttachmentsQuery) (*url.URL, error) {
	if opts.ID < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID to list attachments")
	}
	return a.endpointWithQuery(fmt.Sprintf("api/v2/pages/%d/attachments", opts.ID), opts)
}

// getUploadAttachmentEndpoint returns where attachment data is posted (v1). An
// existing attachment gets a new version, otherwise a new one is created:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---attachments/#api-wiki-rest-api-content-id-child-attachment-post
func (a *API) getUploadAttachmentEndpoint(pageID int, attachmentID string) (*url.URL, error) {
	if pageID < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID to attach to")
	}
	if attachmentID != "" {
		return a.resolveEndpoint(fmt.Sprintf("rest/api/content/%d/child/attachment/%s/data", pageID, url.PathEscape(attachmentID)))
	}
	return a.resolveEndpoint(fmt.Sprintf("rest/api/content/%d/child/attachment", pageID))
}

func (a *API) endpointWithQuery(endpoint string, opts any) (*url.URL, error) {
	ep, err := a.resolveEndpoint(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: failed to parse endpoint ref: %w", err)
	}

	return a.BaseURI.ResolveReference(ref), nil
}
