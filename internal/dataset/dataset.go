// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset loads county education statistics and the county
// topology they are drawn on.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
)

// Default sources of the county topology and the education
// statistics.
const (
	DefaultTopologyURL  = "https://cdn.freecodecamp.org/testable-projects-fcc/data/choropleth_map/counties.json"
	DefaultEducationURL = "https://cdn.freecodecamp.org/testable-projects-fcc/data/choropleth_map/for_user_education.json"
)

// Record is the education statistic for one county.
type Record struct {
	// FIPS is the county's FIPS code. It joins records to
	// topology features.
	FIPS int `json:"fips"`

	// State is the postal abbreviation of the county's state.
	State string `json:"state"`

	// AreaName is the county name, such as "Autauga County".
	AreaName string `json:"area_name"`

	// BachelorsOrHigher is the percentage of adults with a
	// bachelor's degree or higher.
	BachelorsOrHigher float64 `json:"bachelorsOrHigher"`
}

// ParseRecords decodes a JSON array of records.
func ParseRecords(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decoding education records: %w", err)
	}
	return recs, nil
}

// Index maps FIPS codes to records.
//
// If more than one record has the same FIPS code, the first one in
// input order wins. Later duplicates are still counted by Len
// and contribute to Values.
type Index struct {
	records []Record
	byFIPS  map[int]int
}

// NewIndex builds an index over recs. It retains recs.
func NewIndex(recs []Record) *Index {
	ix := &Index{records: recs, byFIPS: make(map[int]int, len(recs))}
	for i, r := range recs {
		if _, ok := ix.byFIPS[r.FIPS]; !ok {
			ix.byFIPS[r.FIPS] = i
		}
	}
	return ix
}

// Lookup returns the first record with the given FIPS code.
func (ix *Index) Lookup(fips int) (Record, bool) {
	i, ok := ix.byFIPS[fips]
	if !ok {
		return Record{}, false
	}
	return ix.records[i], true
}

// Len returns the number of indexed records, including duplicates.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Values returns the BachelorsOrHigher value of every record.
func (ix *Index) Values() []float64 {
	vs := make([]float64, len(ix.records))
	for i, r := range ix.records {
		vs[i] = r.BachelorsOrHigher
	}
	return vs
}
