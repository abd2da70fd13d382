package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildRoutesQueryNoFilters(t *testing.T) {
	query, args := buildRoutesQuery(RouteFilter{})

	assert.Contains(t, query, "FROM bus_routes")
	assert.Contains(t, query, "ORDER BY id")
	assert.NotContains(t, query, "AND")
	assert.Empty(t, args)
}

func TestBuildRoutesQueryAllFilters(t *testing.T) {
	minPrice, maxPrice := 200.0, 1500.0
	from := time.Date(2024, 7, 13, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)

	query, args := buildRoutesQuery(RouteFilter{
		RouteNames: []string{"Hyderabad to Nirmal"},
		Operators:  []string{"TSRTC", "Orange Travels"},
		BusTypes:   []string{"A/C Sleeper (2+1)"},
		MinRating:  3.5,
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
		DepartFrom: &from,
		DepartTo:   &to,
	})

	assert.Contains(t, query, "route_name = ANY($1)")
	assert.Contains(t, query, "busname = ANY($2)")
	assert.Contains(t, query, "bustype = ANY($3)")
	assert.Contains(t, query, "star_rating >= $4")
	assert.Contains(t, query, "price >= $5")
	assert.Contains(t, query, "price <= $6")
	assert.Contains(t, query, "departing_time >= $7")
	assert.Contains(t, query, "departing_time < $8")
	assert.Len(t, args, 8)
}

func TestBuildRoutesQuerySkipsZeroRating(t *testing.T) {
	// A zero minimum rating is "no constraint", so unrated sentinel rows
	// still show up.
	query, args := buildRoutesQuery(RouteFilter{MinRating: 0})

	assert.NotContains(t, query, "star_rating")
	assert.Empty(t, args)
}
