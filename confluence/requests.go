package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

func (api *API) GetUserByID(ctx context.Context, opts GetUserByIDQuery) (*User, error) {
	ep, err := api.getUserByIDEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get user endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var user User

	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &user, nil
}

func (api *API) GetPageByID(ctx context.Context, opts GetPageByIDQuery) (*Page, error) {
	ep, err := api.getPageByIDEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get single page endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var page Page

	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &page, nil
}

func (api *API) GetPages(ctx context.Context, opts GetPagesQuery) (*MultiPageResponse, error) {
	ep, err := api.getPagesEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get pages endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var pageList MultiPageResponse

	if err := json.Unmarshal(body, &pageList); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &pageList, nil
}

func (api *API) getSpaces(ctx context.Context, opts SpacesQuery) (*AllSpaces, error) {
	ep, err := api.getSpaceEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get spaces endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var allSpaces AllSpaces

	if err := json.Unmarshal(body, &allSpaces); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &allSpaces, nil
}

// restClient wraps Client on first use, so a substituted client (VCR) has to
// be in place before the first request.
func (api *API) restClient() *resty.Client {
	api.restOnce.Do(func() {
		hc := api.Client
		if hc == nil {
			hc = &http.Client{Timeout: 60 * time.Second}
		}
		api.rest = resty.NewWithClient(hc).
			SetRetryCount(api.Retries).
			SetRetryWaitTime(100 * time.Millisecond).
			SetRetryMaxWaitTime(5 * time.Second).
			AddRetryCondition(retryable)
	})
	return api.rest
}

// Only reads are repeated; a failed write is reported as is.
func retryable(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}
	code := r.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (api *API) newRequest(ctx context.Context) (*resty.Request, error) {
	if api.limiter != nil {
		if err := api.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("confluence: rate limiter: %w", err)
		}
	}

	req := api.restClient().R().
		SetContext(ctx).
		SetHeader("Accept", "application/json, */*")

	// if user & token are not set, do not add authorization header
	if api.username != "" && api.token != "" {
		req.SetBasicAuth(api.username, api.token)
	} else if api.token != "" {
		req.SetAuthToken(api.token)
	}
	return req, nil
}

// request performs one call against the REST API. A non-nil body is sent as
// JSON.
func (api *API) request(ctx context.Context, method string, ep *url.URL, body any) ([]byte, error) {
	req, err := api.newRequest(ctx)
	if err != nil {
		return nil, err
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't encode request body: %w", err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}

	api.logger().Printf("%s %s", method, ep.String())

	response, err := req.Execute(method, ep.String())
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	return checkStatus(response, ep)
}

// upload posts a file as multipart form data, the way the v1 attachment API
// wants it.
func (api *API) upload(ctx context.Context, ep *url.URL, name, contentType string, r io.Reader, fields map[string]string) ([]byte, error) {
	req, err := api.newRequest(ctx)
	if err != nil {
		return nil, err
	}

	req.SetHeader("X-Atlassian-Token", "no-check").
		SetMultipartField("file", name, contentType, r).
		SetMultipartFormData(fields)

	api.logger().Printf("%s %s (%s)", http.MethodPost, ep.String(), name)

	response, err := req.Post(ep.String())
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	return checkStatus(response, ep)
}

func checkStatus(response *resty.Response, ep *url.URL) ([]byte, error) {
	switch response.StatusCode() {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return response.Body(), nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ep.Path)
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("confluence: authentication failed")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("confluence: rate limited: %s", response.Status())
	case http.StatusServiceUnavailable:
		return nil, fmt.Errorf("confluence: service is not available: %s", response.Status())
	case http.StatusInternalServerError:
		return nil, fmt.Errorf("confluence: internal server error: %s", response.Status())
	case http.StatusConflict:
		return nil, fmt.Errorf("confluence: conflict: %s", response.Status())
	case http.StatusBadRequest:
		return nil, fmt.Errorf("confluence: bad request: %s: %s", response.Status(), response.Body())
	}

	return nil, fmt.Errorf("confluence: unknown HTTP response status: %s: %s", response.Status(), ep.String())
}
