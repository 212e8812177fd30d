package veezi

import "slices"

// Clone returns a deep copy of the session
func (s Session) Clone() Session {
	s.FilmPackageID = clonePtr(s.FilmPackageID)
	s.AudioLanguage = clonePtr(s.AudioLanguage)
	s.Attributes = slices.Clone(s.Attributes)
	return s
}

// Clone returns a deep copy of the film
func (f Film) Clone() Film {
	f.Synopsis = clonePtr(f.Synopsis)
	f.Rating = clonePtr(f.Rating)
	f.Content = clonePtr(f.Content)
	f.NationalCode = clonePtr(f.NationalCode)
	f.AudioLanguage = clonePtr(f.AudioLanguage)
	f.GovernmentFilmTitle = clonePtr(f.GovernmentFilmTitle)
	f.FilmPosterURL = clonePtr(f.FilmPosterURL)
	f.BackdropImageURL = clonePtr(f.BackdropImageURL)
	f.FilmTrailerURL = clonePtr(f.FilmTrailerURL)
	f.People = slices.Clone(f.People)
	return f
}

// Clone returns a deep copy of the package
func (p FilmPackage) Clone() FilmPackage {
	p.Films = slices.Clone(p.Films)
	return p
}

// Clone returns a deep copy of the site
func (s Site) Clone() Site {
	for _, p := range []**string{
		&s.NationalCode, &s.Address1, &s.Address2, &s.Address3, &s.PostCode,
		&s.Phone1, &s.Phone2, &s.Fax, &s.SalesTaxRegistration,
		&s.TicketMessage1, &s.TicketMessage2,
		&s.ReceiptMessage1, &s.ReceiptMessage2, &s.ReceiptMessage3,
		&s.ReceiptMessage4, &s.ReceiptMessage5, &s.ReceiptMessage6,
	} {
		*p = clonePtr(*p)
	}
	s.Screens = slices.Clone(s.Screens)
	return s
}

// Clone returns a deep copy of the list
func (l SessionList) Clone() SessionList {
	return cloneEach(l, Session.Clone)
}

// Clone returns a deep copy of the list
func (l FilmList) Clone() FilmList {
	return cloneEach(l, Film.Clone)
}

// cloneValue copies a decoded response so the cache and its callers never
// share backing arrays or pointers.
func cloneValue[T any](v T) T {
	var out any
	switch x := any(v).(type) {
	case Session:
		out = x.Clone()
	case SessionList:
		out = x.Clone()
	case Film:
		out = x.Clone()
	case FilmList:
		out = x.Clone()
	case FilmPackage:
		out = x.Clone()
	case []FilmPackage:
		out = cloneEach(x, FilmPackage.Clone)
	case Site:
		out = x.Clone()
	case []Screen:
		out = slices.Clone(x)
	case []Attribute:
		out = slices.Clone(x)
	default:
		// Screen and Attribute hold only scalars
		return v
	}
	return out.(T)
}

func cloneEach[S ~[]E, E any](items S, clone func(E) E) S {
	if items == nil {
		return nil
	}
	out := make(S, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
