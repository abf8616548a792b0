package listing

import (
	"fmt"
	"os"
)

// CSVSource loads the peer dataset from two local CSV files.
type CSVSource struct {
	ListingsPath  string
	DistrictsPath string
}

// NewCSVSource creates a CSVSource for the given file paths.
func NewCSVSource(listingsPath, districtsPath string) *CSVSource {
	return &CSVSource{ListingsPath: listingsPath, DistrictsPath: districtsPath}
}

// Load reads and parses both tables.
func (s *CSVSource) Load() (*Dataset, error) {
	lf, err := os.Open(s.ListingsPath)
	if err != nil {
		return nil, fmt.Errorf("opening listing file: %w", err)
	}
	defer lf.Close()

	listings, err := parseListings(lf)
	if err != nil {
		return nil, err
	}

	df, err := os.Open(s.DistrictsPath)
	if err != nil {
		return nil, fmt.Errorf("opening district file: %w", err)
	}
	defer df.Close()

	districts, err := parseDistricts(df)
	if err != nil {
		return nil, err
	}

	return finishDataset(listings, districts, "csv:"+s.ListingsPath), nil
}
