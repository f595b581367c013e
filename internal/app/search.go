package app

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"nadlan_mcp/internal/domain"
)

// Proximity thresholds for the near-* filters, kilometers.
const (
	nearSchoolKm  = 1.5
	nearMedicalKm = 2.0
)

const defaultLimit = 10

// Engine filters, scores and ranks listings from the shared read-only dataset.
type Engine struct {
	data *domain.Dataset
}

func NewEngine(data *domain.Dataset) *Engine {
	return &Engine{data: data}
}

// Search runs the full pipeline for one request: classify intent, narrow the
// candidate pool filter by filter, score every survivor against the whole
// filtered pool, rank, truncate and summarize the returned page.
func (e *Engine) Search(req domain.SearchRequest) domain.SearchResult {
	intent := ClassifyIntent(req)

	pool := e.data.Listings
	var filters []string

	// Explicit transaction filter always wins over the classifier-inferred
	// one; they are never combined.
	if req.Transaction != "" {
		pool = filter(pool, func(l domain.Listing) bool {
			return string(l.Transaction) == req.Transaction
		})
		filters = append(filters, fmt.Sprintf("Transaction type: %s", req.Transaction))
	} else if intent.DetectedTransaction != "" {
		pool = filter(pool, func(l domain.Listing) bool {
			return l.Transaction == intent.DetectedTransaction
		})
		filters = append(filters, fmt.Sprintf("Auto-detected: %s properties only", intent.DetectedTransaction))
	}

	if req.MaxPrice > 0 {
		pool = filter(pool, func(l domain.Listing) bool { return l.Price <= req.MaxPrice })
		filters = append(filters, fmt.Sprintf("Max price: %s NIS", groupThousands(int64(req.MaxPrice))))
	}
	if req.MinPrice > 0 {
		pool = filter(pool, func(l domain.Listing) bool { return l.Price >= req.MinPrice })
		filters = append(filters, fmt.Sprintf("Min price: %s NIS", groupThousands(int64(req.MinPrice))))
	}
	if req.Rooms > 0 {
		pool = filter(pool, func(l domain.Listing) bool { return l.Rooms >= req.Rooms })
		filters = append(filters, fmt.Sprintf("Min rooms: %s", strconv.FormatFloat(req.Rooms, 'f', -1, 64)))
	}
	if req.NearSchools {
		pool = filter(pool, func(l domain.Listing) bool { return l.NearestSchoolKm <= nearSchoolKm })
		filters = append(filters, "Near schools (<=1.5km)")
	}
	if req.NearMedical {
		pool = filter(pool, func(l domain.Listing) bool { return l.NearestClinicKm <= nearMedicalKm })
		filters = append(filters, "Near medical (<=2km)")
	}
	if req.HasParking {
		pool = filter(pool, func(l domain.Listing) bool { return l.HasParking })
		filters = append(filters, "Must have parking")
	}
	if req.HasElevator {
		pool = filter(pool, func(l domain.Listing) bool { return l.HasElevator })
		filters = append(filters, "Must have elevator")
	}
	if req.HasBalcony {
		pool = filter(pool, func(l domain.Listing) bool { return l.HasBalcony })
		filters = append(filters, "Must have balcony")
	}

	// Score against the untruncated pool so percentiles reflect all peers that
	// survived filtering, not just the returned page.
	now := time.Now()
	scored := make([]domain.ScoredListing, len(pool))
	for i, l := range pool {
		scored[i] = domain.ScoredListing{Listing: l, MatchScore: matchScore(l, req, pool, now)}
	}

	// Descending by score; ties keep input order.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].MatchScore > scored[j].MatchScore })

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > len(scored) {
		limit = len(scored)
	}
	page := scored[:limit]

	return domain.SearchResult{
		Properties: page,
		Filters:    filters,
		TotalFound: len(page),
		Stats:      pageStats(page),
		Intent:     intent,
		Request:    req,
	}
}

// matchScore blends price, size, features, recency and amenity proximity into
// a 0..100 score, rounded to one decimal.
func matchScore(l domain.Listing, req domain.SearchRequest, pool []domain.Listing, now time.Time) float64 {
	var s float64

	// Price competitiveness: cheaper than peers scores higher. Needs at least
	// one peer to compare against.
	if len(pool) > 1 {
		s += 15 * (1 - percentileRank(pool, func(p domain.Listing) float64 { return p.Price }, l.Price))
	}

	// Size value: larger than peers scores higher.
	if l.BuiltArea > 0 {
		s += 10 * percentileRank(pool, func(p domain.Listing) float64 { return p.BuiltArea }, l.BuiltArea)
	}

	if l.HasParking {
		s += 5
	}
	if l.HasElevator {
		s += 5
	}
	if l.HasBalcony {
		s += 5
	}

	// Recency: linear decay to zero over a year. Unparseable dates get the
	// midpoint rather than a penalty.
	if pub, err := time.Parse("2006-01-02", l.PublishDate); err != nil {
		s += 5
	} else {
		days := now.Sub(pub).Hours() / 24
		s += math.Max(0, 10*(1-days/365))
	}

	// Context: a requested school proximity dominates the score via
	// exponential decay; no request means a neutral baseline, not a penalty.
	if req.NearSchools {
		if l.NearestSchoolKm < domain.SentinelDistanceKm {
			s += math.Min(50, 50*math.Exp(-2*l.NearestSchoolKm))
		}
	} else {
		s += 25
	}

	s = math.Round(s*10) / 10
	if s > 100 {
		s = 100
	}
	if s < 0 {
		s = 0
	}
	return s
}

// percentileRank is the fraction of the pool strictly below v.
func percentileRank(pool []domain.Listing, field func(domain.Listing) float64, v float64) float64 {
	if len(pool) == 0 {
		return 0
	}
	below := 0
	for _, p := range pool {
		if field(p) < v {
			below++
		}
	}
	return float64(below) / float64(len(pool))
}

// pageStats summarizes the returned page. The aggregates are page-scoped, not
// pool-scoped: that is the served contract.
func pageStats(page []domain.ScoredListing) domain.MarketStats {
	if len(page) == 0 {
		return domain.MarketStats{}
	}
	var sumPrice, sumArea float64
	minPrice, maxPrice := page[0].Price, page[0].Price
	for _, p := range page {
		sumPrice += p.Price
		sumArea += p.BuiltArea
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}
	return domain.MarketStats{
		AvgPrice: int(sumPrice / float64(len(page))),
		MinPrice: int(minPrice),
		MaxPrice: int(maxPrice),
		AvgArea:  math.Round(sumArea/float64(len(page))*10) / 10,
	}
}

func filter(in []domain.Listing, keep func(domain.Listing) bool) []domain.Listing {
	out := make([]domain.Listing, 0, len(in))
	for _, l := range in {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
