package veezi

import "encoding/json"

// Screen is an auditorium at the site
type Screen struct {
	ID              int    `json:"Id"`
	Name            string `json:"Name"`
	ScreenNumber    string `json:"ScreenNumber"`
	HasCustomLayout bool   `json:"HasCustomLayout"`
	TotalSeats      int    `json:"TotalSeats"`
	HouseSeats      int    `json:"HouseSeats"`
}

// UnmarshalJSON decodes a screen, rejecting objects without required fields
func (s *Screen) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "screen",
		"Id", "Name", "ScreenNumber", "HasCustomLayout", "TotalSeats", "HouseSeats"); err != nil {
		return err
	}
	type plain Screen
	return json.Unmarshal(data, (*plain)(s))
}

// SellableSeats is the seat count excluding house seats
func (s *Screen) SellableSeats() int {
	return max(s.TotalSeats-s.HouseSeats, 0)
}
