package domain

import "time"

// Activity is one time-labelled entry of a day plan.
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

type DayPlan struct {
	Day        int        `json:"day"`
	Location   string     `json:"location"`
	Activities []Activity `json:"activities"`
}

type TripLocation struct {
	City          string    `json:"city"`
	Coordinates   []float64 `json:"coordinates"`
	OpenStreetMap string    `json:"openStreetMap"`
}

// Trip is the decoded trip detail blob. Trips are produced by the external
// generator and are read-only here.
type Trip struct {
	ID              string        `json:"id,omitempty"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	EstimatedPrice  string        `json:"estimatedPrice"`
	Duration        int           `json:"duration"`
	Budget          string        `json:"budget"`
	TravelStyle     string        `json:"travelStyle"`
	Country         string        `json:"country"`
	Interests       string        `json:"interests"`
	GroupType       string        `json:"groupType"`
	Rating          float64       `json:"rating"`
	BestTimeToVisit []string      `json:"bestTimeToVisit"`
	WeatherInfo     []string      `json:"weatherInfo"`
	Location        *TripLocation `json:"location,omitempty"`
	Itinerary       []DayPlan     `json:"itinerary"`
	ImageURLs       []string      `json:"imageUrls,omitempty"`
}

// TripRecord is a trip row as stored: the detail blob stays serialized until
// the parser decodes it.
type TripRecord struct {
	ID         string
	UserID     string
	TripDetail *string
	ImageURLs  []string
	CreatedAt  time.Time
}

// TripPage is one window of trips plus the total count of trips.
type TripPage struct {
	Trips []TripRecord
	Total int
}
