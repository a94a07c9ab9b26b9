package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/agentstation/mapreview/pkg/constants"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/review"
)

// Variant selects how detail sections are fetched from the review server.
type Variant string

// Detail variants.
const (
	// VariantFragment fetches pre-rendered markup from /fragment/{catalog}/{id}.
	VariantFragment Variant = "fragment"
	// VariantAPI fetches structured data from /api/{catalog}/{id}.
	VariantAPI Variant = "api"
)

// ParseVariant converts a string to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(s)); v {
	case VariantFragment, VariantAPI:
		return v, nil
	case "":
		return VariantFragment, nil
	}
	return "", errors.NewValidationError("detail_variant", s, "must be fragment or api")
}

const backendService = "review"

// Backend implements review.Backend against a running review server.
type Backend struct {
	base    *url.URL
	variant Variant
	client  *Client
	cache   *expirable.LRU[string, review.Detail]
}

var _ review.Backend = (*Backend)(nil)

// NewBackend creates a backend client for the server at baseURL.
func NewBackend(baseURL string, variant Variant, client *Client) (*Backend, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.NewConfigError("server_url", fmt.Sprintf("invalid server URL %q", baseURL), err)
	}
	if client == nil {
		client = New()
	}
	if variant == "" {
		variant = VariantFragment
	}
	return &Backend{
		base:    base,
		variant: variant,
		client:  client,
		cache:   expirable.NewLRU[string, review.Detail](constants.DetailCacheSize, nil, constants.DetailCacheTTL),
	}, nil
}

func (b *Backend) endpoint(parts ...string) string {
	u := *b.base
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	u.Path = b.base.Path + "/" + strings.Join(escaped, "/")
	return u.String()
}

// Queue fetches the full review queue.
func (b *Backend) Queue(ctx context.Context) ([]review.Mapping, error) {
	resp, err := b.client.Get(ctx, b.endpoint("api", "queue"))
	if err != nil {
		return nil, errors.WrapAPI(backendService, constants.QueuePath, err)
	}
	var queue []review.Mapping
	if err := DecodeResponse(resp, backendService, &queue); err != nil {
		return nil, err
	}
	return queue, nil
}

// Detail fetches one detail section. Results are memoised per section and id.
func (b *Backend) Detail(ctx context.Context, section review.Section, id string) (review.Detail, error) {
	key := string(b.variant) + ":" + string(section) + "/" + id
	if d, ok := b.cache.Get(key); ok {
		return d, nil
	}

	var (
		d   review.Detail
		err error
	)
	switch b.variant {
	case VariantAPI:
		d, err = b.apiDetail(ctx, section, id)
	default:
		d, err = b.fragment(ctx, section, id)
	}
	if err != nil {
		return review.Detail{}, err
	}
	b.cache.Add(key, d)
	return d, nil
}

func (b *Backend) fragment(ctx context.Context, section review.Section, id string) (review.Detail, error) {
	resp, err := b.client.GetAccept(ctx, b.endpoint("fragment", string(section), id), "text/html")
	if err != nil {
		return review.Detail{}, errors.WrapAPI(backendService, constants.FragmentPrefix, err)
	}
	body, err := ReadBody(resp, backendService)
	if err != nil {
		return review.Detail{}, err
	}
	markup := string(bytes.TrimSpace(body))
	if markup == "" {
		return review.Detail{}, errors.NewNotFoundError(string(section), id)
	}
	return review.Detail{Markup: markup}, nil
}

// apiDetail is the structured detail shape served by /api/{catalog}/{id}.
type apiDetail struct {
	Name        string          `json:"name"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Spec        json.RawMessage `json:"spec"`
	SpecLink    string          `json:"spec_link"`
	Standards   struct {
		Spec string `json:"spec"`
	} `json:"standards"`
	Error string `json:"error"`
}

func (b *Backend) apiDetail(ctx context.Context, section review.Section, id string) (review.Detail, error) {
	resp, err := b.client.Get(ctx, b.endpoint("api", string(section), id))
	if err != nil {
		return review.Detail{}, errors.WrapAPI(backendService, constants.APIPrefix, err)
	}
	var raw apiDetail
	if err := DecodeResponse(resp, backendService, &raw); err != nil {
		return review.Detail{}, err
	}
	if raw.Error != "" {
		return review.Detail{}, errors.NewAPIError(backendService, resp.StatusCode, raw.Error)
	}

	d := review.Detail{Name: raw.Name, Summary: raw.Summary}
	if d.Summary == "" {
		d.Summary = raw.Description
	}
	d.Links = appendLinks(d.Links, raw.SpecLink, raw.Standards.Spec)
	d.Links = appendLinks(d.Links, specLinks(raw.Spec)...)
	return d, nil
}

// specLinks accepts either a single URL or a list of URLs.
func specLinks(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

func appendLinks(links []string, add ...string) []string {
	for _, l := range add {
		if l == "" {
			continue
		}
		dup := false
		for _, existing := range links {
			if existing == l {
				dup = true
				break
			}
		}
		if !dup {
			links = append(links, l)
		}
	}
	return links
}

// Save posts the full record. Only the status code matters.
func (b *Backend) Save(ctx context.Context, m review.Mapping) error {
	resp, err := b.client.PostJSON(ctx, b.endpoint("api", "save"), m)
	if err != nil {
		return errors.WrapAPI(backendService, constants.SavePath, err)
	}
	return CheckResponse(resp, backendService)
}
