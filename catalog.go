package sawmcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sawmcp/sqlanywhere-mcp/internal/reject"
)

// Catalog lookups run against the SYS system views with the authorized-owner
// filter parameterized from the shared owner set. Not-found and
// access-denied deliberately collapse into one message: the catalog must not
// leak which owners exist.

const defaultListLimit = 100

// catalogCtx applies the catalog timeout.
func (s *SQLAnywhereMcp) catalogCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(s.config.Query.CatalogTimeoutSeconds)*time.Second)
}

// resolveListLimit validates the limit for a list tool. Zero means the
// default; anything above the configured ceiling is rejected, not clamped.
func (s *SQLAnywhereMcp) resolveListLimit(requested int) (int, error) {
	if requested == 0 {
		return defaultListLimit, nil
	}
	if requested < 0 {
		return 0, reject.New(reject.LimitExceedsCeiling, "limit %d must be positive", requested)
	}
	if requested > s.limits.Ceiling {
		return 0, reject.New(reject.LimitExceedsCeiling,
			"limit %d exceeds maximum allowed limit of %d", requested, s.limits.Ceiling)
	}
	return requested, nil
}

// checkOwnerSearch enforces that owner and search filters are mutually
// exclusive.
func checkOwnerSearch(owner, search string) error {
	if owner != "" && search != "" {
		return fmt.Errorf("cannot specify both 'owner' and 'search' parameters; use one or the other")
	}
	return nil
}

// notFound is the shared not-found/access-denied error. It is identical for
// both cases so callers cannot probe which owners exist.
func notFound(kind, name string) error {
	return fmt.Errorf("%s %q not found or access denied", kind, name)
}

// objectName strips an optional owner prefix from a caller-supplied object
// name. Catalog lookups are already owner-filtered, so the prefix is only a
// convenience spelling.
func objectName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
