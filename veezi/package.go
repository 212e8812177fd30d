package veezi

import (
	"encoding/json"
	"slices"
)

// PackageFilm is one film inside a FilmPackage
type PackageFilm struct {
	FilmID          string  `json:"FilmId"`
	Title           string  `json:"Title"`
	SplitPercent    float64 `json:"SplitPercent"`
	TrailerDuration int     `json:"TrailerDuration"`
	CleanUpDuration int     `json:"CleanUpDuration"`
	Order           int     `json:"Order"`
}

// UnmarshalJSON decodes a package entry, rejecting objects without required fields
func (p *PackageFilm) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "package film",
		"FilmId", "Title", "SplitPercent", "TrailerDuration", "CleanUpDuration", "Order"); err != nil {
		return err
	}
	type plain PackageFilm
	return json.Unmarshal(data, (*plain)(p))
}

// FilmPackage groups several films into one programme, e.g. a double feature
type FilmPackage struct {
	ID     int           `json:"Id"`
	Title  string        `json:"Title"`
	Status FilmStatus    `json:"Status"`
	Films  []PackageFilm `json:"Films"`
}

// UnmarshalJSON decodes a package, rejecting objects without required fields
func (p *FilmPackage) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "film package", "Id", "Title", "Status", "Films"); err != nil {
		return err
	}
	type plain FilmPackage
	return json.Unmarshal(data, (*plain)(p))
}

// OrderedFilms returns the package films sorted by screening order
func (p *FilmPackage) OrderedFilms() []PackageFilm {
	films := slices.Clone(p.Films)
	slices.SortStableFunc(films, func(a, b PackageFilm) int {
		return a.Order - b.Order
	})
	return films
}

// TotalSplitPercent sums the box office split across all films
func (p *FilmPackage) TotalSplitPercent() float64 {
	var total float64
	for _, f := range p.Films {
		total += f.SplitPercent
	}
	return total
}
