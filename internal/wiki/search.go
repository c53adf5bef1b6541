package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// searchPageLimit is the largest srlimit MediaWiki accepts from
// anonymous clients per request. Larger limits paginate via sroffset.
const searchPageLimit = 50

// maxSearchRequests bounds search pagination so an API that keeps
// handing out offsets cannot hold the run in a loop forever.
const maxSearchRequests = 50

// Search returns up to limit page titles related to the search term,
// in relevance order. Duplicate titles are dropped while preserving
// order. A term with no matches returns an empty slice, not an error.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]string, error) {
	if limit <= 0 {
		return make([]string, 0), nil
	}

	titles := make([]string, 0, limit)
	seen := make(map[string]bool, limit)
	offset := 0

	for i := 0; i < maxSearchRequests && len(titles) < limit; i++ {
		remaining := limit - len(titles)
		srlimit := remaining
		if srlimit > searchPageLimit {
			srlimit = searchPageLimit
		}

		params := url.Values{}
		params.Set("action", "query")
		params.Set("list", "search")
		params.Set("srsearch", term)
		params.Set("srlimit", strconv.Itoa(srlimit))
		// Titles are all we need; snippets and metadata are dead weight
		params.Set("srprop", "")
		if offset > 0 {
			params.Set("sroffset", strconv.Itoa(offset))
		}

		resp, err := c.do(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("search for %q failed: %w", term, err)
		}
		if resp.Query == nil || len(resp.Query.Search) == 0 {
			break
		}

		for _, hit := range resp.Query.Search {
			if hit.Title == "" || seen[hit.Title] {
				continue
			}
			seen[hit.Title] = true
			titles = append(titles, hit.Title)
			if len(titles) == limit {
				break
			}
		}

		if resp.Continue == nil || resp.Continue.SrOffset == 0 {
			break
		}
		offset = resp.Continue.SrOffset
	}

	c.logger.DebugContext(ctx, "search complete",
		"term", term,
		"titles", len(titles),
	)
	return titles, nil
}
