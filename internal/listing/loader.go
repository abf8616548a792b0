package listing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hostlens/revpar-advisor/internal/cluster"
)

// Source loads the peer dataset from one backing store. Implementations:
// CSVSource (local files), S3Source (CSV objects on S3), PostgresSource.
type Source interface {
	Load() (*Dataset, error)
}

// header maps lower-cased column names to their index.
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		h[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return h
}

func (h header) str(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) float(row []string, name string) float64 {
	v, err := strconv.ParseFloat(h.str(row, name), 64)
	if err != nil {
		return 0
	}
	return v
}

func (h header) int(row []string, name string) int {
	// Some pipelines emit integer columns as floats ("3.0").
	return int(h.float(row, name))
}

func (h header) boolean(row []string, name string) bool {
	switch strings.ToLower(h.str(row, name)) {
	case "true", "t", "1", "yes", "y":
		return true
	}
	return false
}

// parseListings reads the cleaned listing CSV. Rows that fail to parse are
// skipped with a log line rather than aborting the load; the upstream
// cleaning step occasionally lets a malformed row through.
func parseListings(r io.Reader) ([]Listing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	cols, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading listing header: %w", err)
	}
	h := newHeader(cols)
	if _, ok := h["district"]; !ok {
		return nil, fmt.Errorf("listing table is missing required column %q", "district")
	}

	var listings []Listing
	skipped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		listings = append(listings, Listing{
			District:        h.str(row, "district"),
			RoomType:        h.str(row, "room_type"),
			NightlyRate:     h.float(row, "nightly_rate"),
			Occupancy:       h.float(row, "occupancy"),
			TTMRevPAR:       h.float(row, "ttm_revpar"),
			L90DRevPAR:      h.float(row, "l90d_revpar"),
			TTMRevenue:      h.float(row, "ttm_revenue"),
			ReviewCount:     h.int(row, "reviews_count"),
			Rating:          h.float(row, "rating_overall"),
			PhotoCount:      h.int(row, "photos_count"),
			MinNights:       h.int(row, "min_nights"),
			Superhost:       h.boolean(row, "superhost"),
			InstantBook:     h.boolean(row, "instant_book"),
			ExtraGuestFee:   h.boolean(row, "extra_guest_fee"),
			Bedrooms:        h.float(row, "bedrooms"),
			Bathrooms:       h.float(row, "bathrooms"),
			Guests:          h.int(row, "accommodates"),
			POIDistanceKM:   h.float(row, "poi_distance_km"),
			POICategory:     h.str(row, "poi_category"),
			Cluster:         cluster.ID(h.int(row, "cluster")),
			RefinedStatus:   h.str(row, "refined_status"),
			OperationStatus: h.str(row, "operation_status"),
			Latitude:        h.float(row, "latitude_masked"),
			Longitude:       h.float(row, "longitude_masked"),
		})
	}
	if skipped > 0 {
		log.Printf("[listing] skipped %d malformed rows", skipped)
	}
	return listings, nil
}

// parseDistricts reads the district clustering CSV.
func parseDistricts(r io.Reader) ([]DistrictAggregate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	cols, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading district header: %w", err)
	}
	h := newHeader(cols)
	if _, ok := h["district"]; !ok {
		return nil, fmt.Errorf("district table is missing required column %q", "district")
	}

	var districts []DistrictAggregate
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		districts = append(districts, DistrictAggregate{
			District:       h.str(row, "district"),
			Population:     h.int(row, "population"),
			Cluster:        cluster.ID(h.int(row, "cluster")),
			ClusterName:    h.str(row, "cluster_name"),
			MedianRevPARAO: h.float(row, "median_revpar_ao"),
			DormantRatio:   h.float(row, "dormant_ratio"),
			SuperhostRate:  h.float(row, "superhost_rate"),
			EntireHomeRate: h.float(row, "entire_home_rate"),
			TotalListings:  h.int(row, "total_listings"),
			AOCount:        h.int(row, "ao_count"),
			SupplyShare:    h.float(row, "supply_share"),
		})
	}
	return districts, nil
}

func finishDataset(listings []Listing, districts []DistrictAggregate, source string) *Dataset {
	ds := &Dataset{
		Listings:  listings,
		Districts: districts,
		Source:    source,
		LoadedAt:  time.Now(),
	}
	log.Printf("[listing] loaded %d listings, %d districts from %s",
		len(ds.Listings), len(ds.Districts), source)
	return ds
}
