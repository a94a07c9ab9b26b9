// Package update refreshes the two catalog snapshots: chromestatus entries
// from the chromestatus.com features API and the web-features data set from
// its latest GitHub release.
package update

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/internal/transport"
	"github.com/agentstation/mapreview/internal/utils/jsonfile"
	"github.com/agentstation/mapreview/pkg/constants"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/logging"
)

// Default upstream locations.
const (
	DefaultChromestatusURL = "https://chromestatus.com/api/v0/features"
	DefaultReleaseURL      = "https://api.github.com/repos/web-platform-dx/web-features/releases/latest"

	// ReleaseAsset is the release asset holding the web-features data set.
	ReleaseAsset = "data.json"
)

// xssiPrefix precedes every chromestatus API response.
var xssiPrefix = []byte(")]}'\n")

// Options configures a refresh.
type Options struct {
	ChromestatusPath string
	WebFeaturesPath  string

	ChromestatusURL string
	ReleaseURL      string
	PageSize        int

	// GitHubToken authenticates release lookups, lifting the anonymous rate limit.
	GitHubToken string

	Client *transport.Client
	Logger *zerolog.Logger
}

func (o *Options) defaults() {
	if o.ChromestatusURL == "" {
		o.ChromestatusURL = DefaultChromestatusURL
	}
	if o.ReleaseURL == "" {
		o.ReleaseURL = DefaultReleaseURL
	}
	if o.PageSize <= 0 {
		o.PageSize = constants.ChromestatusPageSize
	}
	if o.Client == nil {
		o.Client = transport.New()
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
}

// Result summarises a refresh.
type Result struct {
	Entries  int    `json:"entries" yaml:"entries"`
	Features int    `json:"features" yaml:"features"`
	Release  string `json:"release" yaml:"release"`
}

// Run refreshes both snapshots concurrently. Either failure cancels the
// other; a snapshot is only replaced once it has been fetched completely.
func Run(ctx context.Context, opts Options) (Result, error) {
	opts.defaults()

	var res Result
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := FetchChromestatus(ctx, opts.Client, opts.ChromestatusURL, opts.PageSize, opts.Logger)
		if err != nil {
			return err
		}
		if err := jsonfile.Write(opts.ChromestatusPath, entries); err != nil {
			return err
		}
		res.Entries = len(entries)
		opts.Logger.Info().Int("entries", len(entries)).Str("path", opts.ChromestatusPath).Msg("Wrote chromestatus entries")
		return nil
	})
	g.Go(func() error {
		githubClient := opts.Client
		if opts.GitHubToken != "" {
			githubClient = transport.New(transport.WithAuth(&transport.BearerAuth{Token: opts.GitHubToken}))
		}
		data, tag, err := FetchWebFeatures(ctx, githubClient, opts.ReleaseURL, opts.Logger)
		if err != nil {
			return err
		}
		if err := jsonfile.Write(opts.WebFeaturesPath, data); err != nil {
			return err
		}
		res.Features, res.Release = data.FeatureCount(), tag
		opts.Logger.Info().Int("features", res.Features).Str("release", tag).Str("path", opts.WebFeaturesPath).Msg("Wrote web-features data")
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}

type chromestatusPage struct {
	Features []catalogs.Entry `json:"features"`
}

// FetchChromestatus pages through the features API until it returns an
// empty page. The newest entries come first and may shift between pages,
// so entries are deduplicated by id and returned sorted by id.
func FetchChromestatus(ctx context.Context, client *transport.Client, baseURL string, pageSize int, logger *zerolog.Logger) ([]catalogs.Entry, error) {
	seen := make(map[int64]bool)
	var entries []catalogs.Entry

	for start := 0; ; start += pageSize {
		logger.Debug().Int("start", start+1).Int("end", start+pageSize).Msg("Fetching chromestatus entries")

		url := fmt.Sprintf("%s?start=%d&num=%d", baseURL, start, pageSize)
		resp, err := client.Get(ctx, url)
		if err != nil {
			return nil, errors.WrapAPI("chromestatus", url, err)
		}
		body, err := transport.ReadBody(resp, "chromestatus")
		if err != nil {
			return nil, err
		}
		if !bytes.HasPrefix(body, xssiPrefix) {
			return nil, errors.NewParseError("json", url, "response did not begin with the expected )]}' prefix", nil)
		}

		var page chromestatusPage
		if err := json.Unmarshal(body[len(xssiPrefix):], &page); err != nil {
			return nil, errors.WrapParse("json", url, err)
		}
		if len(page.Features) == 0 {
			break
		}
		for _, e := range page.Features {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			entries = append(entries, e)
		}
	}

	slices.SortFunc(entries, func(a, b catalogs.Entry) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return entries, nil
}

// WebFeaturesData is a web-features data file kept whole; only the
// features object is required.
type WebFeaturesData map[string]json.RawMessage

// FeatureCount returns the number of features in the data set.
func (d WebFeaturesData) FeatureCount() int {
	var features map[string]json.RawMessage
	if err := json.Unmarshal(d["features"], &features); err != nil {
		return 0
	}
	return len(features)
}

type release struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// FetchWebFeatures resolves the latest release and downloads its data asset.
func FetchWebFeatures(ctx context.Context, client *transport.Client, releaseURL string, logger *zerolog.Logger) (WebFeaturesData, string, error) {
	logger.Debug().Str("url", releaseURL).Msg("Fetching latest web-features release")
	resp, err := client.Get(ctx, releaseURL)
	if err != nil {
		return nil, "", errors.WrapAPI("github", releaseURL, err)
	}
	var rel release
	if err := transport.DecodeResponse(resp, "github", &rel); err != nil {
		return nil, "", err
	}

	var assetURL string
	for _, a := range rel.Assets {
		if a.Name == ReleaseAsset {
			assetURL = a.BrowserDownloadURL
			break
		}
	}
	if assetURL == "" {
		return nil, rel.TagName, errors.NewNotFoundError("release asset", ReleaseAsset+" in web-features "+rel.TagName)
	}

	logger.Debug().Str("release", rel.TagName).Str("asset", ReleaseAsset).Msg("Fetching web-features data")
	resp, err = client.Get(ctx, assetURL)
	if err != nil {
		return nil, rel.TagName, errors.WrapAPI("github", assetURL, err)
	}
	var data WebFeaturesData
	if err := transport.DecodeResponse(resp, "github", &data); err != nil {
		return nil, rel.TagName, err
	}
	if _, ok := data["features"]; !ok {
		return nil, rel.TagName, errors.NewParseError("json", assetURL, "missing features object", nil)
	}
	return data, rel.TagName, nil
}
