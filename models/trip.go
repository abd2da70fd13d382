package models

import "time"

// RawTrip holds the as-scraped text fields for one listing row. It is
// produced once per row during extraction and discarded after normalization.
type RawTrip struct {
	Operator       string
	BusType        string
	DepartureText  string
	ArrivalText    string
	Duration       string
	FareText       string
	SeatsText      string
	RatingText     string
	ArrivesNextDay bool
}

// TripRecord is the validated, typed record ready for the bus_routes table.
// Column names on the wire match the table schema.
type TripRecord struct {
	ID             int64     `json:"id"`
	RouteName      string    `json:"route_name"`
	RouteLink      string    `json:"route_link"`
	Operator       string    `json:"busname"`
	BusType        string    `json:"bustype"`
	DepartureAt    time.Time `json:"departing_time"`
	Duration       string    `json:"duration"`
	ArrivalAt      time.Time `json:"reaching_time"`
	StarRating     float64   `json:"star_rating"`
	Price          float64   `json:"price"`
	SeatsAvailable int       `json:"seats_available"`
}
