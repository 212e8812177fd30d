package veezi

import "encoding/json"

// Attribute is a tag that can be attached to sessions, e.g. "Subtitled"
type Attribute struct {
	ID                        string `json:"Id"`
	Description               string `json:"Description"`
	ShortName                 string `json:"ShortName"`
	FontColor                 string `json:"FontColor"`
	BackgroundColor           string `json:"BackgroundColor"`
	ShowOnSessionsWithNoComps bool   `json:"ShowOnSessionsWithNoComps"`
}

// UnmarshalJSON decodes an attribute, rejecting objects without required fields
func (a *Attribute) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "attribute",
		"Id", "Description", "ShortName", "FontColor", "BackgroundColor", "ShowOnSessionsWithNoComps"); err != nil {
		return err
	}
	type plain Attribute
	return json.Unmarshal(data, (*plain)(a))
}
