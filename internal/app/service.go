package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"nadlan_mcp/internal/domain"
)

// Responses larger than this are served but not cached.
const maxCacheableBytes = 1_000_000

// Service is the cached facade the dispatcher talks to: classify, search,
// format, with a cache-aside layer over the formatted response. A nil cache
// disables caching entirely.
type Service struct {
	engine   *Engine
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewService(e *Engine, c domain.Cache, ttl time.Duration) *Service {
	return &Service{engine: e, cache: c, cacheTTL: ttl}
}

// CallOutput is one rendered answer: the text body plus the mode that
// produced it.
type CallOutput struct {
	Mode string `json:"mode"`
	Text string `json:"text"`
}

// Call executes one search request end to end and renders it according to the
// classified intent.
func (s *Service) Call(ctx context.Context, req domain.SearchRequest) (CallOutput, error) {
	key := cacheKey(req)
	if s.cache != nil {
		var out CallOutput
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	res := s.engine.Search(req)

	out := CallOutput{Mode: res.Intent.FormatMode}
	if res.Intent.FormatMode == "data" {
		body, err := json.MarshalIndent(BuildDataPayload(res), "", "  ")
		if err != nil {
			return CallOutput{}, err
		}
		out.Text = string(body)
	} else {
		out.Text = FormatListings(res)
	}

	if s.cache != nil && len(out.Text) < maxCacheableBytes {
		if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
			log.Debug().Err(err).Msg("response cache set failed")
		}
	}
	return out, nil
}

// cacheKey hashes the canonical JSON form of the arguments; field order is
// fixed by the struct, so equal requests hash equally.
func cacheKey(req domain.SearchRequest) string {
	b, _ := json.Marshal(req)
	sum := sha1.Sum(b)
	return "search:" + hex.EncodeToString(sum[:])
}
