package domain

// Country is a selectable destination on the trip creation form.
type Country struct {
	Name          string    `json:"name"`
	Value         string    `json:"value"`
	Coordinates   []float64 `json:"coordinates"`
	OpenStreetMap string    `json:"openStreetMap,omitempty"`
}
