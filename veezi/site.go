package veezi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Site describes the cinema the API key belongs to
type Site struct {
	Name                 string  `json:"Name"`
	ShortName            string  `json:"ShortName"`
	LegalName            string  `json:"LegalName"`
	NationalCode         *string `json:"NationalCode,omitempty"`
	Address1             *string `json:"Address1,omitempty"`
	Address2             *string `json:"Address2,omitempty"`
	Address3             *string `json:"Address3,omitempty"`
	PostCode             *string `json:"PostCode,omitempty"`
	Phone1               *string `json:"Phone1,omitempty"`
	Phone2               *string `json:"Phone2,omitempty"`
	Fax                  *string `json:"Fax,omitempty"`
	SalesTaxRegistration *string `json:"SalesTaxRegistration,omitempty"`
	TicketMessage1       *string `json:"TicketMessage1,omitempty"`
	TicketMessage2       *string `json:"TicketMessage2,omitempty"`
	ReceiptMessage1      *string `json:"ReceiptMessage1,omitempty"`
	ReceiptMessage2      *string `json:"ReceiptMessage2,omitempty"`
	ReceiptMessage3      *string `json:"ReceiptMessage3,omitempty"`
	ReceiptMessage4      *string `json:"ReceiptMessage4,omitempty"`
	ReceiptMessage5      *string `json:"ReceiptMessage5,omitempty"`
	ReceiptMessage6      *string `json:"ReceiptMessage6,omitempty"`
	TimeZoneIdentifier   string  `json:"TimeZoneIdentifier"`
	Country              string  `json:"Country"`
	Screens              []int   `json:"-"`
}

var siteRequired = []string{"Name", "ShortName", "LegalName", "TimeZoneIdentifier", "Country", "Screens"}

// UnmarshalJSON decodes the site; Screens arrive as [{"Id":n}]
func (s *Site) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "site", siteRequired...); err != nil {
		return err
	}
	type plain Site
	aux := struct {
		*plain
		Screens idList `json:"Screens"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Screens = []int(aux.Screens)
	return nil
}

// MarshalJSON mirrors UnmarshalJSON
func (s Site) MarshalJSON() ([]byte, error) {
	type plain Site
	return json.Marshal(struct {
		plain
		Screens idList `json:"Screens"`
	}{plain: plain(s), Screens: idList(s.Screens)})
}

// Location loads the site's time zone
func (s *Site) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.TimeZoneIdentifier)
	if err != nil {
		return nil, fmt.Errorf("site time zone %q: %w", s.TimeZoneIdentifier, err)
	}
	return loc, nil
}

// Now returns the current time in the site's time zone, falling back to the
// local zone when the identifier is unknown.
func (s *Site) Now() time.Time {
	loc, err := s.Location()
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// Address joins the non-empty address lines and post code
func (s *Site) Address() string {
	var parts []string
	for _, p := range []*string{s.Address1, s.Address2, s.Address3, s.PostCode} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, ", ")
}
