package confluence

import (
	"encoding/json"
	"strconv"
)

// See https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-get
type User struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	UserKey     string `json:"userKey"`
	AccountID   string `json:"accountId"`
	AccountType string `json:"accountType"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-space/#api-spaces-get. I'm
// embellishing that with the Org/"Confluence instance name" field for convenience.
type Space struct {
	ID         string `json:"id,omitempty"`
	Key        string `json:"key,omitempty"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type,omitempty"`
	Status     string `json:"status,omitempty"`
	HomepageID string `json:"homepageId,omitempty"`
	Org        string `json:"-"`
}

// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-get.
type Page struct {
	ID         string `json:"id,omitempty"`
	Status     string `json:"status,omitempty"` // current, archived, deleted, trashed
	Title      string `json:"title,omitempty"`
	SpaceID    string `json:"spaceId,omitempty"`
	ParentID   string `json:"parentId,omitempty"`
	ParentType string `json:"parentType,omitempty"`
	Position   int    `json:"position,omitempty"`
	AuthorID   string `json:"authorId,omitempty"`
	OwnerID    string `json:"ownerId,omitempty"`

	CreatedAt string   `json:"createdAt"`
	Version   *Version `json:"version,omitempty"`

	Body Body `json:"body"`

	Links struct {
		WebUI  string `json:"webui"`
		EditUI string `json:"editui"`
		TinyUI string `json:"tinyui"`
	} `json:"_links"`
}

// Info condenses a page into the fields a publish needs.
func (p Page) Info(baseURL string) (PageInfo, error) {
	id, err := strconv.Atoi(p.ID)
	if err != nil {
		return PageInfo{}, err
	}
	spaceID, _ := strconv.Atoi(p.SpaceID)
	info := PageInfo{ID: id, SpaceID: spaceID, Link: baseURL + p.Links.WebUI}
	if p.Version != nil {
		info.Version = p.Version.Number
	}
	return info, nil
}

// PageInfo is a snapshot of a page. The zero value means the page doesn't
// exist.
type PageInfo struct {
	ID      int
	SpaceID int
	Version int
	Link    string
}

// Descendant is an item below a page: a page, whiteboard, database, embed or
// folder.
// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-descendants/#api-pages-id-descendants-get
type Descendant struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	Depth    int    `json:"depth"`
}

// Version defines the content version number
// the version number is used for updating content
type Version struct {
	CreatedAt string `json:"createdAt,omitempty"`
	Message   string `json:"message,omitempty"`
	Number    int    `json:"number"`
	MinorEdit bool   `json:"minorEdit"`
	AuthorID  string `json:"authorId,omitempty"`
}

// Body holds the storage information
type Body struct {
	Storage        Storage  `json:"storage"`
	AtlasDocFormat *Storage `json:"atlas_doc_format,omitempty"`
	View           *Storage `json:"view,omitempty"`
}

// Storage defines the storage information
type Storage struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}

// Property is a content property of a page.
// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-content-properties/
type Property struct {
	ID      string          `json:"id"`
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
	Version Version         `json:"version"`
}

// StringValue returns the property value when it is a JSON string.
func (p Property) StringValue() (string, bool) {
	var s string
	if err := json.Unmarshal(p.Value, &s); err != nil {
		return "", false
	}
	return s, true
}

// PropertyUpdate describes a property write. An empty ID creates the property.
type PropertyUpdate struct {
	ID      string
	Key     string
	Value   any
	Version int
}

// Label as listed on a page.
type Label struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// LabelInfo is the v1 label lookup result.
// See https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-label-info/#api-wiki-rest-api-label-get
type LabelInfo struct {
	Label struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Prefix string `json:"prefix"`
		Label  string `json:"label"`
	} `json:"label"`
}

// Attachment on a page.
// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-attachment/
type Attachment struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	MediaType string   `json:"mediaType"`
	FileSize  int64    `json:"fileSize"`
	Version   *Version `json:"version,omitempty"`
}
