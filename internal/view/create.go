package view

import (
	"strings"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
	"github.com/diagnosis/tourvisto-admin/internal/tripform"
)

type CountryOption struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

func ToCountryOptions(countries []domain.Country) []CountryOption {
	out := make([]CountryOption, 0, len(countries))
	for _, c := range countries {
		out = append(out, CountryOption{Text: c.Name, Value: c.Value})
	}
	return out
}

// FilterCountries keeps countries whose display name contains query,
// ignoring case.
func FilterCountries(countries []domain.Country, query string) []domain.Country {
	q := strings.ToLower(query)
	out := make([]domain.Country, 0, len(countries))
	for _, c := range countries {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

const markerColor = "#ea382e"

type MapMarker struct {
	Country     string
	Color       string
	Coordinates []float64
}

// MarkerFor highlights the selected country on the form map. Coordinates are
// empty when the country is unknown.
func MarkerFor(countries []domain.Country, selected string) MapMarker {
	m := MapMarker{Country: selected, Color: markerColor, Coordinates: []float64{}}
	for _, c := range countries {
		if c.Value == selected {
			m.Coordinates = c.Coordinates
			break
		}
	}
	return m
}

type CreateTrip struct {
	Countries []CountryOption
	Selects   []tripform.Select
	Form      domain.TripFormData
	Marker    MapMarker
	Error     string
}

// ToCreateTrip builds the form view. An empty draft preselects the first
// country.
func ToCreateTrip(countries []domain.Country, form domain.TripFormData, errMsg string) CreateTrip {
	if form.Country == "" && len(countries) > 0 {
		form.Country = countries[0].Value
	}
	return CreateTrip{
		Countries: ToCountryOptions(countries),
		Selects:   tripform.Selects(form),
		Form:      form,
		Marker:    MarkerFor(countries, form.Country),
		Error:     errMsg,
	}
}
