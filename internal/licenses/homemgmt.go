package licenses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rotisserie/eris"
)

const (
	homeManagementsPath = "/homemanagement/api/rest/services/houses/public/searchByOrg"
	homeManagementPath  = "/homemanagement/api/rest/services/houses/public/1/"
)

// PageIter is a lazy iterator over the paginated home-managements search.
// The first page is fetched on the first Next; its "total" field bounds the
// walk over the remaining pages.
type PageIter struct {
	client  *Client
	ctx     context.Context
	orgGUID string
	perPage int

	page  int
	total int
	cur   map[string]any
	err   error
	done  bool
}

// HomeManagements starts a paginated search of houses managed by the given
// organization. perPage controls the page size; values below 1 default to 1.
func (c *Client) HomeManagements(ctx context.Context, orgGUID string, perPage int) *PageIter {
	if perPage < 1 {
		perPage = 1
	}
	return &PageIter{client: c, ctx: ctx, orgGUID: orgGUID, perPage: perPage}
}

// Next fetches the next page. It returns false on exhaustion or error.
func (it *PageIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}

	it.page++
	if it.page > 1 && it.page > it.total {
		it.done = true
		return false
	}

	page, err := it.fetch(it.page)
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	it.cur = page

	if it.page == 1 {
		it.total = intField(page, "total")
		if it.total < 2 {
			it.done = true
		}
	}
	return true
}

// Page returns the page produced by the last successful Next.
func (it *PageIter) Page() map[string]any { return it.cur }

// Err returns the error that stopped iteration, if any.
func (it *PageIter) Err() error { return it.err }

func (it *PageIter) fetch(page int) (map[string]any, error) {
	body, err := json.Marshal(map[string]any{
		"organizationGuid": it.orgGUID,
		"calcCount":        true,
	})
	if err != nil {
		return nil, eris.Wrap(err, "marshal home managements payload")
	}

	u := fmt.Sprintf("%s%s?pageIndex=%d&elementsPerPage=%d",
		it.client.baseURL, homeManagementsPath, page, it.perPage)
	resp, err := it.client.http.Post(it.ctx, u, body, jsonHeaders)
	if err != nil {
		return nil, eris.Wrapf(err, "home managements page %d", page)
	}
	return decodeBody(resp, "home managements search")
}

// HomeManagement fetches one managed house by its GUID.
func (c *Client) HomeManagement(ctx context.Context, guid string) (map[string]any, error) {
	resp, err := c.http.Get(ctx, c.baseURL+homeManagementPath+url.PathEscape(guid)+"/", nil)
	if err != nil {
		return nil, eris.Wrap(err, "home management lookup")
	}
	return decodeBody(resp, "home management lookup")
}

// intField reads an integer out of a decoded JSON object; missing or null
// values read as zero.
func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
