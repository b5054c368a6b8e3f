package ongsys

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Extraction is the outcome of paginating one listing endpoint.
type Extraction struct {
	// Records holds the deduplicated rows across all fetched pages.
	Records []Record
	// Declared is the server-declared total, or len(Records) if the
	// endpoint never declared one.
	Declared int
	// Pages is the number of pages fetched.
	Pages int
	// Truncated reports that pagination stopped early on a failure and
	// the batch is partial. The caller decides whether that is acceptable.
	Truncated bool
}

// KeyFunc extracts the natural key of a record. Records with an empty key
// are kept (they may still be usable downstream); duplicates are dropped.
type KeyFunc func(Record) string

// FetchAll paginates an endpoint until the API signals completion.
//
// Stop conditions, all treated as equally authoritative: an empty data
// array, the declared total reached, the 422 sentinel status, a "no more
// records" payload, and the configured hard page cap. A mid-pagination
// failure does not abort: the partial batch collected so far is returned
// with Truncated set.
func (c *Client) FetchAll(ctx context.Context, endpoint string, keyFn KeyFunc) *Extraction {
	out := &Extraction{}
	seen := make(map[string]struct{})

	maxPages := c.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 500
	}
	delay := time.Duration(c.cfg.PageDelayMS) * time.Millisecond

	for page := 1; ; page++ {
		if page > maxPages {
			c.log.Warn("page cap reached, stopping extraction",
				zap.String("endpoint", endpoint),
				zap.Int("max_pages", maxPages),
			)
			break
		}

		p, err := c.GetPage(ctx, endpoint, page)
		if errors.Is(err, ErrNoMorePages) {
			break
		}
		if err != nil {
			c.log.Warn("extraction stopped early, returning partial batch",
				zap.String("endpoint", endpoint),
				zap.Int("page", page),
				zap.Error(err),
			)
			out.Truncated = true
			break
		}

		out.Pages++
		if out.Declared == 0 {
			out.Declared = p.Declared
		}
		if len(p.Records) == 0 {
			break
		}

		for _, rec := range p.Records {
			key := ""
			if keyFn != nil {
				key = keyFn(rec)
			}
			if key != "" {
				// Pages can overlap; keep the first copy of a key.
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			out.Records = append(out.Records, rec)
		}

		c.log.Debug("page fetched",
			zap.String("endpoint", endpoint),
			zap.Int("page", page),
			zap.Int("page_records", len(p.Records)),
			zap.Int("collected", len(out.Records)),
		)

		if out.Declared > 0 && len(out.Records) >= out.Declared {
			break
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}

	if out.Declared == 0 {
		out.Declared = len(out.Records)
	}
	if c.observer != nil {
		c.observer(endpoint, out)
	}
	return out
}
