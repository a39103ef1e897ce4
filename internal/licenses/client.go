// Package licenses retrieves housing-license archives from dom.gosuslugi.ru
// and normalizes the embedded spreadsheets into typed rows.
package licenses

import (
	"context"
	"net/url"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gisgkh/licenses-cli/internal/fetcher"
	"github.com/gisgkh/licenses-cli/internal/regions"
)

const (
	licenseUIDPath = "/licenses/api/rest/services/public/licenses/region-license-xls/"
	downloadPath   = "/filestore/publicDownloadAllFilesServlet"
)

// Client drives the multi-step retrieval sequence against the portal.
type Client struct {
	http    fetcher.Client
	baseURL string
}

// NewClient creates a portal client on top of the given HTTP collaborator.
func NewClient(http fetcher.Client, baseURL string) *Client {
	return &Client{http: http, baseURL: baseURL}
}

// LicenseUIDs looks up the archive uid for each validated region. A non-2xx
// response excludes that region from the result and is logged; a transport
// failure aborts the lookup. Regions are processed one at a time.
func (c *Client) LicenseUIDs(ctx context.Context, regs []regions.Region) (map[string]string, error) {
	log := zap.L().With(zap.String("component", "licenses.client"))

	uids := make(map[string]string, len(regs))
	for _, reg := range regs {
		resp, err := c.http.Get(ctx, c.baseURL+licenseUIDPath+regions.URLCode(reg.Code), nil)
		if err != nil {
			return nil, eris.Wrapf(err, "uid lookup for region %d", reg.Code)
		}
		if !resp.OK() {
			log.Error("uid was not obtained",
				zap.Int("region_code", reg.Code),
				zap.String("region_name", reg.Name),
				zap.Int("status", resp.StatusCode),
			)
			continue
		}
		uids[reg.Name] = string(resp.Body)
	}
	return uids, nil
}

// DownloadArchives fetches the zip archive for each (region, uid) entry.
// Non-2xx responses are logged and that region is excluded; transport
// failures abort the download.
func (c *Client) DownloadArchives(ctx context.Context, uids map[string]string) (map[string][]byte, error) {
	log := zap.L().With(zap.String("component", "licenses.client"))

	names := make([]string, 0, len(uids))
	for name := range uids {
		names = append(names, name)
	}
	sort.Strings(names)

	archives := make(map[string][]byte, len(uids))
	for _, name := range names {
		query := url.Values{}
		query.Set("context", "licenses")
		query.Set("uids", uids[name])
		query.Set("zipFileName", name+".zip")

		resp, err := c.http.Get(ctx, c.baseURL+downloadPath, query)
		if err != nil {
			return nil, eris.Wrapf(err, "archive download for %s", name)
		}
		if !resp.OK() {
			log.Error("license info was not obtained",
				zap.String("region_name", name),
				zap.Int("status", resp.StatusCode),
			)
			continue
		}
		archives[name] = resp.Body
	}
	return archives, nil
}

// Licenses runs the full retrieval sequence for the requested region codes
// and returns a lazy iterator of per-region workbooks. Unknown codes fail
// before any network activity begins.
func (c *Client) Licenses(ctx context.Context, codes []int) (*WorkbookIter, error) {
	regs, err := regions.Resolve(codes)
	if err != nil {
		return nil, err
	}

	uids, err := c.LicenseUIDs(ctx, regs)
	if err != nil {
		return nil, err
	}

	archives, err := c.DownloadArchives(ctx, uids)
	if err != nil {
		return nil, err
	}

	return NewWorkbookIter(archives), nil
}
