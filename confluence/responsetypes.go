package confluence

// Links is the pagination block of v2 list responses.
type Links struct {
	// Contains the relative URL for the next set of results, using a cursor query
	// parameter. This property will not be present if there is no additional data available.
	Next string `json:"next"`
	// Site root, e.g. https://ORG.atlassian.net/wiki
	Base string `json:"base"`
}

// AllSpaces response type
type AllSpaces struct {
	Results []Space `json:"results"`
	Links   Links   `json:"_links"`
}

type MultiPageResponse struct {
	Results []Page `json:"results"`
	Links   Links  `json:"_links"`
}

type DescendantsResponse struct {
	Results []Descendant `json:"results"`
	Links   Links        `json:"_links"`
}

type PropertiesResponse struct {
	Results []Property `json:"results"`
	Links   Links      `json:"_links"`
}

type LabelsResponse struct {
	Results []Label `json:"results"`
	Links   Links   `json:"_links"`
}

type AttachmentsResponse struct {
	Results []Attachment `json:"results"`
	Links   Links        `json:"_links"`
}

// v1 attachment upload answer.
type uploadResponse struct {
	Results []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
}

type createPageRequest struct {
	SpaceID  string  `json:"spaceId"`
	Status   string  `json:"status"`
	Title    string  `json:"title"`
	ParentID string  `json:"parentId,omitempty"`
	Body     Storage `json:"body"`
}

type updatePageRequest struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Title    string  `json:"title"`
	SpaceID  string  `json:"spaceId"`
	ParentID string  `json:"parentId,omitempty"`
	Body     Storage `json:"body"`
	Version  Version `json:"version"`
}

type propertyRequest struct {
	Key     string  `json:"key"`
	Value   any     `json:"value"`
	Version Version `json:"version"`
}

type labelRequest struct {
	Prefix string `json:"prefix"`
	Name   string `json:"name"`
}
