package listing

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/hostlens/revpar-advisor/internal/cluster"
)

// PostgresSource loads the peer dataset from the warehouse tables the
// cleaning pipeline writes to.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource opens and pings a connection for connStr.
func NewPostgresSource(connStr string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresSource{db: db}, nil
}

// NewPostgresSourceFromDB wraps an existing connection (used by tests).
func NewPostgresSourceFromDB(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

const listingQuery = `
	SELECT district, room_type, nightly_rate, occupancy, ttm_revpar, l90d_revpar,
	       ttm_revenue, reviews_count, rating_overall, photos_count, min_nights,
	       superhost, instant_book, extra_guest_fee, bedrooms, bathrooms,
	       accommodates, poi_distance_km, poi_category, cluster,
	       refined_status, operation_status, latitude_masked, longitude_masked
	FROM listings_cleaned`

const districtQuery = `
	SELECT district, population, cluster, cluster_name, median_revpar_ao,
	       dormant_ratio, superhost_rate, entire_home_rate, total_listings,
	       ao_count, supply_share
	FROM district_clustered`

// Load reads both tables in full.
func (s *PostgresSource) Load() (*Dataset, error) {
	rows, err := s.db.Query(listingQuery)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var l Listing
		var clusterID int
		if err := rows.Scan(
			&l.District, &l.RoomType, &l.NightlyRate, &l.Occupancy, &l.TTMRevPAR,
			&l.L90DRevPAR, &l.TTMRevenue, &l.ReviewCount, &l.Rating, &l.PhotoCount,
			&l.MinNights, &l.Superhost, &l.InstantBook, &l.ExtraGuestFee,
			&l.Bedrooms, &l.Bathrooms, &l.Guests, &l.POIDistanceKM, &l.POICategory,
			&clusterID, &l.RefinedStatus, &l.OperationStatus, &l.Latitude, &l.Longitude,
		); err != nil {
			return nil, fmt.Errorf("scanning listing row: %w", err)
		}
		l.Cluster = cluster.ID(clusterID)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listings: %w", err)
	}

	drows, err := s.db.Query(districtQuery)
	if err != nil {
		return nil, fmt.Errorf("querying districts: %w", err)
	}
	defer drows.Close()

	var districts []DistrictAggregate
	for drows.Next() {
		var d DistrictAggregate
		var clusterID int
		if err := drows.Scan(
			&d.District, &d.Population, &clusterID, &d.ClusterName,
			&d.MedianRevPARAO, &d.DormantRatio, &d.SuperhostRate,
			&d.EntireHomeRate, &d.TotalListings, &d.AOCount, &d.SupplyShare,
		); err != nil {
			return nil, fmt.Errorf("scanning district row: %w", err)
		}
		d.Cluster = cluster.ID(clusterID)
		districts = append(districts, d)
	}
	if err := drows.Err(); err != nil {
		return nil, fmt.Errorf("iterating districts: %w", err)
	}

	return finishDataset(listings, districts, "postgres"), nil
}

// Close closes the database connection.
func (s *PostgresSource) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}
