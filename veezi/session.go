package veezi

import (
	"encoding/json"
	"slices"
	"time"
)

// Seating represents the seating type of a session
type Seating string

const (
	// SeatingAllocated is reserved seating
	SeatingAllocated Seating = "Allocated"
	// SeatingSelect lets customers pick from a subset of seats
	SeatingSelect Seating = "Select"
	// SeatingOpen is general admission
	SeatingOpen Seating = "Open"
)

// ShowType represents whether a session is open to the public
type ShowType string

const (
	// ShowTypePrivate is not available to the general public
	ShowTypePrivate ShowType = "Private"
	// ShowTypePublic is a public show
	ShowTypePublic ShowType = "Public"
)

// SessionStatus represents the sales status of a session
type SessionStatus string

const (
	// SessionStatusOpen means tickets can be sold
	SessionStatusOpen SessionStatus = "Open"
	// SessionStatusClosed means tickets cannot be sold
	SessionStatusClosed SessionStatus = "Closed"
	// SessionStatusPlanned means the session is not yet open for sales
	SessionStatusPlanned SessionStatus = "Planned"
)

// SalesChannel names a channel tickets can be sold through
type SalesChannel string

const (
	ChannelKiosk SalesChannel = "KIOSK"
	ChannelPOS   SalesChannel = "POS"
	ChannelWWW   SalesChannel = "WWW"
	ChannelMX    SalesChannel = "MX"
	ChannelRSP   SalesChannel = "RSP"
)

// SalesVia is the set of channels a session is sold through. Unknown channel
// names are ignored.
type SalesVia struct {
	Kiosk bool
	POS   bool
	WWW   bool
	MX    bool
	RSP   bool
}

// UnmarshalJSON decodes the upstream list of channel names
func (s *SalesVia) UnmarshalJSON(data []byte) error {
	var channels []SalesChannel
	if err := json.Unmarshal(data, &channels); err != nil {
		return err
	}
	*s = SalesVia{}
	for _, c := range channels {
		switch c {
		case ChannelKiosk:
			s.Kiosk = true
		case ChannelPOS:
			s.POS = true
		case ChannelWWW:
			s.WWW = true
		case ChannelMX:
			s.MX = true
		case ChannelRSP:
			s.RSP = true
		}
	}
	return nil
}

// MarshalJSON encodes the set back to a list of channel names
func (s SalesVia) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Channels())
}

// Channels lists the enabled channels
func (s SalesVia) Channels() []SalesChannel {
	channels := make([]SalesChannel, 0, 5)
	if s.Kiosk {
		channels = append(channels, ChannelKiosk)
	}
	if s.POS {
		channels = append(channels, ChannelPOS)
	}
	if s.WWW {
		channels = append(channels, ChannelWWW)
	}
	if s.MX {
		channels = append(channels, ChannelMX)
	}
	if s.RSP {
		channels = append(channels, ChannelRSP)
	}
	return channels
}

// Allows reports whether tickets can be sold through channel
func (s SalesVia) Allows(channel SalesChannel) bool {
	return slices.Contains(s.Channels(), channel)
}

// Session is a single screening of a film
type Session struct {
	ID                        int           `json:"Id"`
	FilmID                    string        `json:"FilmId"`
	FilmPackageID             *int          `json:"FilmPackageId,omitempty"`
	Title                     string        `json:"Title"`
	ScreenID                  int           `json:"ScreenId"`
	Seating                   Seating       `json:"Seating"`
	AreComplimentariesAllowed bool          `json:"AreComplimentariesAllowed"`
	ShowType                  ShowType      `json:"ShowType"`
	SalesVia                  SalesVia      `json:"SalesVia"`
	Status                    SessionStatus `json:"Status"`
	PreShowStartTime          LocalTime     `json:"PreShowStartTime"`
	SalesCutOffTime           LocalTime     `json:"SalesCutOffTime"`
	FeatureStartTime          LocalTime     `json:"FeatureStartTime"`
	FeatureEndTime            LocalTime     `json:"FeatureEndTime"`
	CleanupEndTime            LocalTime     `json:"CleanupEndTime"`
	TicketsSoldOut            bool          `json:"TicketsSoldOut"`
	FewTicketsLeft            bool          `json:"FewTicketsLeft"`
	SeatsAvailable            int           `json:"SeatsAvailable"`
	SeatsHeld                 int           `json:"SeatsHeld"`
	SeatsHouse                int           `json:"SeatsHouse"`
	SeatsSold                 int           `json:"SeatsSold"`
	FilmFormat                FilmFormat    `json:"FilmFormat"`
	PriceCardName             string        `json:"PriceCardName"`
	Attributes                []string      `json:"Attributes"`
	AudioLanguage             *string       `json:"AudioLanguage,omitempty"`
}

var sessionRequired = []string{
	"Id", "FilmId", "Title", "ScreenId", "Seating", "AreComplimentariesAllowed",
	"ShowType", "SalesVia", "Status", "PreShowStartTime", "SalesCutOffTime",
	"FeatureStartTime", "FeatureEndTime", "CleanupEndTime", "TicketsSoldOut",
	"FewTicketsLeft", "SeatsAvailable", "SeatsHeld", "SeatsHouse", "SeatsSold",
	"FilmFormat", "PriceCardName", "Attributes",
}

// UnmarshalJSON decodes a session, rejecting objects without required fields
func (s *Session) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "session", sessionRequired...); err != nil {
		return err
	}
	type plain Session
	return json.Unmarshal(data, (*plain)(s))
}

// Date returns the calendar date the session starts on
func (s *Session) Date() Date {
	return s.PreShowStartTime.Date()
}

// IsOpenForSales reports whether tickets can still be sold at now: the session
// is open, the sales cut-off has not passed and seats remain.
func (s *Session) IsOpenForSales(now time.Time) bool {
	return s.Status == SessionStatusOpen &&
		Wall(now).Before(s.SalesCutOffTime.Time) &&
		s.SeatsAvailable > 0
}

// IsWebSaleable reports whether the session can be sold online at now
func (s *Session) IsWebSaleable(now time.Time) bool {
	return s.IsOpenForSales(now) && s.ShowType == ShowTypePublic && s.SalesVia.WWW
}

// HasAvailableSeats reports whether any seats remain
func (s *Session) HasAvailableSeats() bool {
	return s.SeatsAvailable > 0 && !s.TicketsSoldOut
}

// HasAttribute reports whether the session carries the attribute ID
func (s *Session) HasAttribute(id string) bool {
	return slices.Contains(s.Attributes, id)
}

// Duration is the running time of the feature
func (s *Session) Duration() time.Duration {
	return s.FeatureEndTime.Sub(s.FeatureStartTime.Time)
}

// Capacity is the total number of seats accounted for by the session
func (s *Session) Capacity() int {
	return s.SeatsAvailable + s.SeatsHeld + s.SeatsHouse + s.SeatsSold
}

// Occupancy is the fraction of capacity sold, 0 when capacity is unknown
func (s *Session) Occupancy() float64 {
	capacity := s.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(s.SeatsSold) / float64(capacity)
}

// Language returns the audio language or an empty string
func (s *Session) Language() string {
	if s.AudioLanguage == nil {
		return ""
	}
	return *s.AudioLanguage
}
