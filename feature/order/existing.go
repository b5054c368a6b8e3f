package order

import (
	"context"
	"errors"
	"strings"

	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/utils"

	"go.uber.org/zap"
)

const existingBatchSize = 500

// ExistingIDs loads the source order ids already imported as Stock
// Entries, paging through the custom_id_ongsys field in batches.
//
// When the field is not filterable (a site configuration problem) the
// API answers 403/417 with "Field not permitted". Duplicate checking is
// then disabled with a warning instead of failing the run: a re-imported
// order is caught later by the conflict path, just more expensively.
func ExistingIDs(ctx context.Context, dst erpnext.Client, log *zap.Logger) map[string]struct{} {
	ids := make(map[string]struct{})
	start := 0

	for {
		docs, err := dst.List(ctx, "Stock Entry", erpnext.ListOptions{
			Filters: []erpnext.Filter{{Field: "custom_id_ongsys", Op: "is", Value: "set"}},
			Fields:  []string{"name", "custom_id_ongsys"},
			Limit:   existingBatchSize,
			Start:   start,
		})
		if err != nil {
			if fieldNotPermitted(err) {
				log.Warn("custom_id_ongsys is not filterable, duplicate check disabled")
			} else {
				log.Warn("failed to load imported order ids, duplicate check disabled", zap.Error(err))
			}
			return map[string]struct{}{}
		}
		if len(docs) == 0 {
			break
		}

		for _, doc := range docs {
			if id := strings.TrimSpace(utils.ToString(doc["custom_id_ongsys"])); id != "" {
				ids[id] = struct{}{}
			}
		}
		start += existingBatchSize
	}

	log.Info("loaded imported order ids", zap.Int("count", len(ids)))
	return ids
}

func fieldNotPermitted(err error) bool {
	var apiErr *erpnext.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode != 403 && apiErr.StatusCode != 417 {
		return false
	}
	return strings.Contains(apiErr.Body, "Field not permitted")
}
