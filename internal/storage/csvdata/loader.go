// Package csvdata loads the enriched listings CSV produced by the offline
// data-preparation pipeline into the in-memory dataset. A missing or broken
// file degrades to a small built-in dataset so the server still starts.
package csvdata

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"nadlan_mcp/internal/domain"
	"nadlan_mcp/internal/geo"
)

const listingsFile = "listings_enriched.csv"

type Loader struct {
	dir     string
	workers int
}

func New(dir string, workers int) *Loader {
	if workers <= 0 {
		workers = 8
	}
	return &Loader{dir: dir, workers: workers}
}

// Load reads and enriches the dataset. It never fails: any startup data
// problem is logged and answered with the fallback dataset.
func (l *Loader) Load(ctx context.Context) *domain.Dataset {
	path := filepath.Join(l.dir, listingsFile)
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("dataset unavailable, using fallback data")
		return Fallback()
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("dataset header unreadable, using fallback data")
		return Fallback()
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	rows, err := r.ReadAll()
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("dataset rows unreadable, using fallback data")
		return Fallback()
	}

	listings := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, parseRow(col, row))
	}
	if len(listings) == 0 {
		log.Warn().Str("path", path).Msg("dataset empty, using fallback data")
		return Fallback()
	}

	ds := &domain.Dataset{Listings: listings}
	enrichProximity(ctx, ds, l.workers)
	log.Info().Int("listings", len(listings)).Str("path", path).Msg("dataset loaded")
	return ds
}

func parseRow(col map[string]int, row []string) domain.Listing {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(name string) float64 {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			return 0 // bad cells degrade, they do not fail the row
		}
		return v
	}
	// Boolean columns arrive as text and must parse case-insensitively.
	boolean := func(name string) bool {
		return strings.EqualFold(field(name), "true")
	}
	coord := func(name string) *float64 {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			return nil
		}
		return &v
	}

	l := domain.Listing{
		PublishDate:  field("publish_date"),
		SellerType:   field("seller_type"),
		Rooms:        num("property_rooms"),
		Price:        num("property_price"),
		Floors:       int(num("property_floors")),
		BuiltArea:    num("property_builded_area"),
		City:         field("city"),
		Neighborhood: field("neighbourhood"),
		Street:       field("street"),
		PropertyType: field("property_type"),
		Transaction:  domain.TransactionType(field("transaction_type")),
		HasBalcony:   boolean("bulletin_has_balconies"),
		HasElevator:  boolean("bulletin_has_elevator"),
		HasParking:   boolean("bulletin_has_parking"),
		Lat:          coord("lat"),
		Lon:          coord("lon"),

		NearestSchoolName: "Unknown",
		NearestSchoolKm:   domain.SentinelDistanceKm,
		NearestClinicName: "Unknown",
		NearestClinicKm:   domain.SentinelDistanceKm,
	}
	if l.Transaction == "" {
		l.Transaction = domain.ClassifyTransaction(l.Price)
	}
	return l
}

// enrichProximity caches the nearest school and clinic on every listing,
// bounded to a fixed number of workers. Listings without coordinates keep the
// sentinel distance.
func enrichProximity(ctx context.Context, ds *domain.Dataset, workers int) {
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i := range ds.Listings {
		if ds.Listings[i].Lat == nil || ds.Listings[i].Lon == nil {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("proximity enrichment interrupted")
			return
		}
		wg.Add(1)
		go func(l *domain.Listing) {
			defer wg.Done()
			defer sem.Release(1)

			name, km := geo.NearestTo(l.Lat, l.Lon, domain.SchoolCatalog)
			l.NearestSchoolName, l.NearestSchoolKm = name, round2(km)

			name, km = geo.NearestTo(l.Lat, l.Lon, domain.MedicalCatalog)
			l.NearestClinicName, l.NearestClinicKm = name, round2(km)
		}(&ds.Listings[i])
	}
	wg.Wait()
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Fallback is the built-in synthetic dataset used when the CSV snapshot is
// missing or corrupt.
func Fallback() *domain.Dataset {
	f := func(v float64) *float64 { return &v }
	return &domain.Dataset{Listings: []domain.Listing{
		{
			PublishDate: "2025-03-30", SellerType: "agent",
			Rooms: 4.0, Price: 1290000, Floors: 3, BuiltArea: 100,
			City: "חיפה", Neighborhood: "הדר הכרמל", Street: "הרצליה",
			PropertyType: "FLAT", Transaction: domain.ForSale,
			HasBalcony: true, HasElevator: true, HasParking: false,
			Lat: f(32.811234), Lon: f(34.991456),
			NearestSchoolName: "בית ספר יסודי נורדאו", NearestSchoolKm: 0.14,
			NearestClinicName: "קליניקה רפואית כרמל", NearestClinicKm: 0.39,
		},
		{
			PublishDate: "2025-02-04", SellerType: "agent",
			Rooms: 3.5, Price: 1590000, Floors: 2, BuiltArea: 68,
			City: "חיפה", Neighborhood: "נוה פז", Street: "שפרע",
			PropertyType: "FLAT", Transaction: domain.ForSale,
			HasBalcony: false, HasElevator: true, HasParking: true,
			Lat: f(32.790123), Lon: f(35.010456),
			NearestSchoolName: "בית ספר יסודי נוה שאנן", NearestSchoolKm: 0.08,
			NearestClinicName: "לאומית - נוה פז", NearestClinicKm: 0.12,
		},
		{
			PublishDate: "2025-01-15", SellerType: "owner",
			Rooms: 3.0, Price: 1750000, Floors: 1, BuiltArea: 80,
			City: "חיפה", Neighborhood: "ואדי ניסנאס", Street: "כורי",
			PropertyType: "FLAT", Transaction: domain.ForSale,
			HasBalcony: true, HasElevator: false, HasParking: true,
			Lat: f(32.803456), Lon: f(34.987890),
			NearestSchoolName: "מקצועי מקס שיין", NearestSchoolKm: 0.05,
			NearestClinicName: "מכבי - הדר", NearestClinicKm: 0.33,
		},
	}}
}
