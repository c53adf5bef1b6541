package wiki

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/wikirefs/wikirefs/internal/model"
)

// maxContinueRequests bounds extlinks pagination per title so a
// pathological page cannot hold a worker in a continuation loop forever.
const maxContinueRequests = 50

// Page is a successfully fetched reference list for one title.
type Page struct {
	// Title is the resolved page title after redirect and normalization,
	// which may differ from the requested title.
	Title string

	// References holds the page's external links in API order.
	References []string
}

// References fetches the external reference links of the page with the
// given title. Redirects are followed, so the returned Page carries the
// final title.
//
// Failures come back as *FetchError with the kind already classified:
// disambiguation pages, missing pages, transport timeouts, and
// everything else as unknown.
func (c *Client) References(ctx context.Context, title string) (*Page, error) {
	page := &Page{Title: title, References: make([]string, 0)}
	elcontinue := ""

	for i := 0; i < maxContinueRequests; i++ {
		params := url.Values{}
		params.Set("action", "query")
		params.Set("prop", "extlinks|pageprops")
		params.Set("ppprop", "disambiguation")
		params.Set("ellimit", "max")
		params.Set("redirects", "1")
		params.Set("titles", title)
		if elcontinue != "" {
			params.Set("elcontinue", elcontinue)
		}

		resp, err := c.do(ctx, params)
		if err != nil {
			return nil, &FetchError{Title: title, Kind: classifyNetworkError(err), Cause: err}
		}
		if resp.Query == nil || len(resp.Query.Pages) == 0 {
			return nil, &FetchError{Title: title, Kind: model.KindUnknown, Cause: errors.New("empty query result")}
		}

		p := resp.Query.Pages[0]
		if p.Missing || p.Invalid {
			return nil, &FetchError{Title: title, Kind: model.KindNotFound}
		}
		if _, ok := p.PageProps["disambiguation"]; ok {
			return nil, &FetchError{
				Title:   title,
				Kind:    model.KindDisambiguation,
				Options: c.disambigOptions(ctx, p.Title),
			}
		}

		page.Title = p.Title
		for _, link := range p.ExtLinks {
			if link.URL != "" {
				page.References = append(page.References, link.URL)
			}
		}

		if resp.Continue == nil || resp.Continue.ElContinue == "" {
			return page, nil
		}
		elcontinue = resp.Continue.ElContinue
	}

	// Pagination cap reached; return what we collected
	c.logger.WarnContext(ctx, "reference pagination capped",
		"title", title,
		"references", len(page.References),
	)
	return page, nil
}

// disambigOptions fetches the rendered disambiguation page and extracts
// the candidate titles it lists. Failures return an empty list; the
// outcome is already classified as a disambiguation at that point.
func (c *Client) disambigOptions(ctx context.Context, title string) []string {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")

	resp, err := c.do(ctx, params)
	if err != nil || resp.Parse == nil || resp.Parse.Text == "" {
		return nil
	}

	options, err := parseDisambigOptions(strings.NewReader(resp.Parse.Text))
	if err != nil {
		return nil
	}
	return options
}
