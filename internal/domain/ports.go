package domain

import (
	"context"
	"time"
)

// Cache is a read-through cache for formatted search responses. Implementations
// must treat errors as misses on the read path.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// SearchRequest carries the caller-supplied tool arguments for one call.
// Built per request, never shared.
type SearchRequest struct {
	QueryText     string   `json:"_query_text"`
	MaxPrice      float64  `json:"max_price"`
	MinPrice      float64  `json:"min_price"`
	Rooms         float64  `json:"rooms"`
	PropertyType  string   `json:"property_type"`
	Transaction   string   `json:"transaction_type"`
	Neighborhoods []string `json:"neighborhoods"`
	NearSchools   bool     `json:"near_schools"`
	NearMedical   bool     `json:"near_medical"`
	HasParking    bool     `json:"has_parking"`
	HasElevator   bool     `json:"has_elevator"`
	HasBalcony    bool     `json:"has_balcony"`
	SortBy        string   `json:"sort_by"`
	Limit         int      `json:"limit"`
}

// Intent is the classified goal of a query: which output shape the caller
// wants, which amenity categories matter, and any implied transaction type.
type Intent struct {
	FormatMode          string   // listings|data
	MentionedAmenities  []string // subset of schools|medical|transport
	IsListingQuery      bool
	IsDataQuery         bool
	DetectedTransaction TransactionType // empty when nothing matched
}

// MentionsAmenity reports whether the given category was detected.
func (in Intent) MentionsAmenity(kind string) bool {
	for _, a := range in.MentionedAmenities {
		if a == kind {
			return true
		}
	}
	return false
}

// ScoredListing annotates a listing with its composite match score.
type ScoredListing struct {
	Listing
	MatchScore float64 `json:"madlan_match_score"`
}

// MarketStats summarizes the returned page.
type MarketStats struct {
	AvgPrice int     `json:"avg_price"`
	MinPrice int     `json:"min_price"`
	MaxPrice int     `json:"max_price"`
	AvgArea  float64 `json:"avg_area"`
}

// SearchResult is the ranked, truncated answer to one request plus the
// descriptions of every filter that was applied.
type SearchResult struct {
	Properties []ScoredListing
	Filters    []string
	TotalFound int
	Stats      MarketStats
	Intent     Intent
	Request    SearchRequest
}
