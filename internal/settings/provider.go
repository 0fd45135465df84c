// internal/settings/provider.go
package settings

import (
	"context"
	"strings"
)

// Provider resolves process-wide app settings keyed by (category, key).
// Lookups never fail a caller: absent or inactive settings resolve to the
// supplied default.
type Provider interface {
	GetString(ctx context.Context, category, key, def string) string
	GetBool(ctx context.Context, category, key string, def bool) bool
	Invalidate(ctx context.Context) error
}

// parseBool accepts the value spellings the admin panel has historically
// stored for toggles.
func parseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// Static is an in-memory Provider keyed "category/key", for tests and tools.
type Static map[string]string

func (s Static) GetString(_ context.Context, category, key, def string) string {
	if v, ok := s[category+"/"+key]; ok {
		return v
	}
	return def
}

func (s Static) GetBool(_ context.Context, category, key string, def bool) bool {
	if v, ok := s[category+"/"+key]; ok {
		return parseBool(v, def)
	}
	return def
}

func (s Static) Invalidate(_ context.Context) error { return nil }
