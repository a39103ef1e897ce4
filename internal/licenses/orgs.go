package licenses

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/gisgkh/licenses-cli/internal/fetcher"
)

const (
	organizationsPath = "/ppa/api/rest/services/ppa/organizations/chooser/search;page=1;itemsPerPage=11"
	organizationPath  = "/ppa/api/rest/services/ppa/public/organizations/orgByGuid"
	housesPath        = "/nsi/api/rest/services/nsi/fias/v4/houses"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

type sortCriterion struct {
	SortedBy  string `json:"sortedBy"`
	Ascending bool   `json:"ascending"`
}

type collCriterion[T any] struct {
	Coll    []T    `json:"coll"`
	Operand string `json:"operand"`
}

type roleConstraint struct {
	RoleCode     string   `json:"roleCode"`
	RoleStatuses []string `json:"roleStatuses"`
}

type orgSearchPayload struct {
	SortCriteriaList         []sortCriterion               `json:"sortCriteriaList"`
	OrganizationStatuses     collCriterion[string]         `json:"organizationStatuses"`
	OrganizationTypes        collCriterion[string]         `json:"organizationTypes"`
	SubordinationOrgTypeList collCriterion[string]         `json:"subordinationOrgTypeList"`
	CommonSearchString       string                        `json:"commonSearchString"`
	RoleConstraints          collCriterion[roleConstraint] `json:"roleConstraints"`
}

// orgSearchBody builds the portal's fixed organization-search criteria with
// the caller's INN as the search string.
func orgSearchBody(inn string) ([]byte, error) {
	payload := orgSearchPayload{
		SortCriteriaList: []sortCriterion{
			{SortedBy: "organizationType", Ascending: false},
			{SortedBy: "shortName", Ascending: true},
			{SortedBy: "fullName", Ascending: true},
			{SortedBy: "parentKpp", Ascending: true},
			{SortedBy: "kpp", Ascending: true},
		},
		OrganizationStatuses:     collCriterion[string]{Coll: []string{"REGISTERED"}, Operand: "OR"},
		OrganizationTypes:        collCriterion[string]{Coll: []string{"B", "L", "A"}, Operand: "OR"},
		SubordinationOrgTypeList: collCriterion[string]{Coll: []string{"HEAD", "BRANCH"}, Operand: "OR"},
		CommonSearchString:       inn,
		RoleConstraints: collCriterion[roleConstraint]{
			Coll: []roleConstraint{
				{RoleCode: "1", RoleStatuses: []string{"APPROVED"}},
				{RoleCode: "19", RoleStatuses: []string{"APPROVED"}},
				{RoleCode: "20", RoleStatuses: []string{"APPROVED"}},
				{RoleCode: "22", RoleStatuses: []string{"APPROVED"}},
				{RoleCode: "21", RoleStatuses: []string{"APPROVED"}},
			},
			Operand: "OR",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "marshal organization search payload")
	}
	return body, nil
}

// decodeBody enforces the shared response contract of the thin read
// operations: non-2xx is an error, an empty body decodes to nil.
func decodeBody(resp *fetcher.Response, op string) (map[string]any, error) {
	if !resp.OK() {
		return nil, eris.Errorf("%s: http %d", op, resp.StatusCode)
	}
	var parsed map[string]any
	if err := resp.JSON(&parsed); err != nil {
		return nil, eris.Wrap(err, op)
	}
	return parsed, nil
}

// Organizations searches registered organizations by INN.
func (c *Client) Organizations(ctx context.Context, inn string) (map[string]any, error) {
	body, err := orgSearchBody(inn)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(ctx, c.baseURL+organizationsPath, body, jsonHeaders)
	if err != nil {
		return nil, eris.Wrap(err, "organization search")
	}
	return decodeBody(resp, "organization search")
}

// Organization fetches one organization by its GUID.
func (c *Client) Organization(ctx context.Context, guid string) (map[string]any, error) {
	query := url.Values{}
	query.Set("organizationGuid", guid)

	resp, err := c.http.Get(ctx, c.baseURL+organizationPath, query)
	if err != nil {
		return nil, eris.Wrap(err, "organization lookup")
	}
	return decodeBody(resp, "organization lookup")
}

// ActiveHouses fetches the actual FIAS records for a house code.
func (c *Client) ActiveHouses(ctx context.Context, houseCode string) (map[string]any, error) {
	return c.houses(ctx, houseCode, true)
}

// NotActiveHouses fetches the historical FIAS records for a house code.
func (c *Client) NotActiveHouses(ctx context.Context, houseCode string) (map[string]any, error) {
	return c.houses(ctx, houseCode, false)
}

func (c *Client) houses(ctx context.Context, houseCode string, actual bool) (map[string]any, error) {
	query := url.Values{}
	query.Set("houseCodes", houseCode)
	query.Set("includeDuplicates", "false")
	if actual {
		query.Set("actual", "true")
	} else {
		query.Set("actual", "false")
	}

	resp, err := c.http.Get(ctx, c.baseURL+housesPath, query)
	if err != nil {
		return nil, eris.Wrap(err, "houses lookup")
	}
	return decodeBody(resp, "houses lookup")
}
