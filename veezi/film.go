package veezi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FilmStatus represents the scheduling status of a film
type FilmStatus string

const (
	// FilmStatusActive can be scheduled
	FilmStatusActive FilmStatus = "Active"
	// FilmStatusInactive cannot be scheduled
	FilmStatusInactive FilmStatus = "Inactive"
	// FilmStatusDeleted has been removed
	FilmStatusDeleted FilmStatus = "Deleted"
)

// FilmFormat represents the presentation format of a film or session
type FilmFormat string

const (
	FormatFilm2D       FilmFormat = "2D Film"
	FormatDigital2D    FilmFormat = "2D Digital"
	FormatDigital3D    FilmFormat = "3D Digital"
	FormatDigital3DHFR FilmFormat = "3D HFR"
	FormatNotAFilm     FilmFormat = "Not a Film"
)

// Is3D reports whether the format is any 3D format
func (f FilmFormat) Is3D() bool {
	return f == FormatDigital3D || f == FormatDigital3DHFR
}

// Is2D reports whether the format is any 2D format
func (f FilmFormat) Is2D() bool {
	return f == FormatFilm2D || f == FormatDigital2D
}

// Person is someone credited on a film
type Person struct {
	ID        string `json:"Id"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Role      string `json:"Role"`
}

// UnmarshalJSON decodes a person, rejecting objects without required fields
func (p *Person) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "person", "Id", "FirstName", "LastName", "Role"); err != nil {
		return err
	}
	type plain Person
	return json.Unmarshal(data, (*plain)(p))
}

// FullName returns "First Last"
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Film is a film known to the site
type Film struct {
	ID                     string     `json:"Id"`
	Title                  string     `json:"Title"`
	ShortName              string     `json:"ShortName"`
	Synopsis               *string    `json:"Synopsis,omitempty"`
	Genre                  string     `json:"Genre"`
	SignageText            string     `json:"SignageText"`
	Distributor            string     `json:"Distributor"`
	OpeningDate            LocalTime  `json:"OpeningDate"`
	Rating                 *string    `json:"Rating,omitempty"`
	Status                 FilmStatus `json:"Status"`
	Content                *string    `json:"Content,omitempty"`
	Duration               int        `json:"Duration"`
	DisplaySequence        int        `json:"DisplaySequence"`
	NationalCode           *string    `json:"NationalCode,omitempty"`
	Format                 FilmFormat `json:"Format"`
	IsRestricted           bool       `json:"IsRestricted"`
	People                 []Person   `json:"People"`
	AudioLanguage          *string    `json:"AudioLanguage,omitempty"`
	GovernmentFilmTitle    *string    `json:"GovernmentFilmTitle,omitempty"`
	FilmPosterURL          *string    `json:"FilmPosterUrl,omitempty"`
	FilmPosterThumbnailURL string     `json:"FilmPosterThumbnailUrl"`
	BackdropImageURL       *string    `json:"BackdropImageUrl,omitempty"`
	FilmTrailerURL         *string    `json:"FilmTrailerUrl,omitempty"`
}

var filmRequired = []string{
	"Id", "Title", "ShortName", "Genre", "SignageText", "Distributor",
	"OpeningDate", "Status", "Duration", "DisplaySequence", "Format",
	"IsRestricted", "People", "FilmPosterThumbnailUrl",
}

// UnmarshalJSON decodes a film, rejecting objects without required fields
func (f *Film) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "film", filmRequired...); err != nil {
		return err
	}
	type plain Film
	return json.Unmarshal(data, (*plain)(f))
}

// FormattedDuration renders the running time as "Xh" or "Xh Ym"
func (f *Film) FormattedDuration() string {
	hours := f.Duration / 60
	minutes := f.Duration % 60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// IsActive reports whether the film can currently be scheduled
func (f *Film) IsActive() bool {
	return f.Status == FilmStatusActive
}

// Is3D reports whether the film is in a 3D format
func (f *Film) Is3D() bool {
	return f.Format.Is3D()
}

// Is2D reports whether the film is in a 2D format
func (f *Film) Is2D() bool {
	return f.Format.Is2D()
}

// PeopleWithRole returns the credited people with the given role
func (f *Film) PeopleWithRole(role string) []Person {
	var people []Person
	for _, p := range f.People {
		if strings.EqualFold(p.Role, role) {
			people = append(people, p)
		}
	}
	return people
}

// Actors returns the credited actors
func (f *Film) Actors() []Person {
	return f.PeopleWithRole("Actor")
}

// Directors returns the credited directors
func (f *Film) Directors() []Person {
	return f.PeopleWithRole("Director")
}

// ActorsFormatted joins actor names with ", "
func (f *Film) ActorsFormatted() string {
	return joinNames(f.Actors())
}

// DirectorsFormatted joins director names with ", "
func (f *Film) DirectorsFormatted() string {
	return joinNames(f.Directors())
}

// RatingDisplay returns the rating, or "NR" for unrated films
func (f *Film) RatingDisplay() string {
	if f.Rating == nil || *f.Rating == "" {
		return "NR"
	}
	return *f.Rating
}

func joinNames(people []Person) string {
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.FullName()
	}
	return strings.Join(names, ", ")
}
