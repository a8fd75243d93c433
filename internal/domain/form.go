package domain

// TripFormData is the draft submitted by the trip creation form. It is never
// persisted.
type TripFormData struct {
	Country     string `json:"country"`
	TravelStyle string `json:"travelStyle"`
	Interest    string `json:"interest"`
	Budget      string `json:"budget"`
	Duration    int    `json:"duration"`
	GroupType   string `json:"groupType"`

	// DurationInput is the duration exactly as typed, echoed back when the
	// form is shown again.
	DurationInput string `json:"-"`
}
