// Package view maps parsed records onto the flat structures the page
// templates render.
package view

import (
	"fmt"
	"strings"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
	"github.com/diagnosis/tourvisto-admin/internal/utils"
)

type TripCard struct {
	ID       string
	Name     string
	Location string
	ImageURL string
	Tags     []string
	Price    string
}

// Thumbnail is the first image URL, or "".
func Thumbnail(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

func ToTripCard(t domain.Trip) TripCard {
	location := ""
	if len(t.Itinerary) > 0 {
		location = t.Itinerary[0].Location
	}
	return TripCard{
		ID:       t.ID,
		Name:     t.Name,
		Location: location,
		ImageURL: Thumbnail(t.ImageURLs),
		Tags:     []string{t.Interests, t.TravelStyle},
		Price:    t.EstimatedPrice,
	}
}

func ToTripCards(trips []domain.Trip) []TripCard {
	cards := make([]TripCard, 0, len(trips))
	for _, t := range trips {
		cards = append(cards, ToTripCard(t))
	}
	return cards
}

// UniqueLocations returns up to limit itinerary locations, first occurrence
// order, duplicates dropped.
func UniqueLocations(itinerary []domain.DayPlan, limit int) []string {
	seen := make(map[string]struct{}, len(itinerary))
	out := make([]string, 0, limit)
	for _, day := range itinerary {
		if len(out) == limit {
			break
		}
		if _, ok := seen[day.Location]; ok {
			continue
		}
		seen[day.Location] = struct{}{}
		out = append(out, day.Location)
	}
	return out
}

type Pill struct {
	Text  string
	Class string
}

type GalleryImage struct {
	URL      string
	Featured bool
}

type VisitSection struct {
	Title string
	Items []string
}

type TripDetail struct {
	ID             string
	Name           string
	DurationLabel  string
	Locations      string
	Gallery        []GalleryImage
	Pills          []Pill
	Stars          int
	Rating         string
	Heading        string
	Summary        string
	EstimatedPrice string
	Description    string
	Itinerary      []domain.DayPlan
	Visit          []VisitSection
	PopularTrips   []TripCard
}

const ratingStars = 5

func ToTripDetail(t domain.Trip, popular []domain.Trip) TripDetail {
	gallery := make([]GalleryImage, 0, len(t.ImageURLs))
	for i, u := range t.ImageURLs {
		gallery = append(gallery, GalleryImage{URL: u, Featured: i == 0})
	}

	pills := []Pill{
		{Text: utils.FirstWord(t.TravelStyle), Class: "pill-pink"},
		{Text: utils.FirstWord(t.GroupType), Class: "pill-primary"},
		{Text: utils.FirstWord(t.Budget), Class: "pill-success"},
		{Text: utils.FirstWord(t.Interests), Class: "pill-navy"},
	}

	return TripDetail{
		ID:             t.ID,
		Name:           t.Name,
		DurationLabel:  fmt.Sprintf("%d day plan", t.Duration),
		Locations:      strings.Join(UniqueLocations(t.Itinerary, 2), ", "),
		Gallery:        gallery,
		Pills:          pills,
		Stars:          ratingStars,
		Rating:         formatRating(t.Rating),
		Heading:        fmt.Sprintf("%d-Day %s %s", t.Duration, t.Country, t.TravelStyle),
		Summary:        fmt.Sprintf("%s, %s and %s", t.Budget, t.GroupType, t.Interests),
		EstimatedPrice: t.EstimatedPrice,
		Description:    t.Description,
		Itinerary:      t.Itinerary,
		Visit: []VisitSection{
			{Title: "Best Time To Visit", Items: t.BestTimeToVisit},
			{Title: "Weather", Items: t.WeatherInfo},
		},
		PopularTrips: ToTripCards(popular),
	}
}

func formatRating(r float64) string {
	if r == 0 {
		return ""
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", r), ".0")
}
