package model

// MovieDetails is the supplementary movie data merged into a content's metadata on import.
type MovieDetails struct {
	Overview string   `json:"overview"`
	Director string   `json:"director"`
	Cast     []string `json:"cast"`
	Genres   []string `json:"genres"`
	Runtime  *int     `json:"runtime"`
}

func (d *MovieDetails) Metadata() Metadata {
	cast := d.Cast
	if cast == nil {
		cast = []string{}
	}
	genres := d.Genres
	if genres == nil {
		genres = []string{}
	}
	meta := Metadata{
		"overview": d.Overview,
		"director": d.Director,
		"cast":     cast,
		"genres":   genres,
		"runtime":  nil,
	}
	if d.Runtime != nil {
		meta["runtime"] = *d.Runtime
	}
	return meta
}

// SearchResult is one hit from a remote catalog search, ready to be imported.
type SearchResult struct {
	Source     string      `json:"source"`
	ExternalID string      `json:"external_id"`
	Type       ContentType `json:"type"`
	Title      string      `json:"title"`
	Year       *int        `json:"year,omitempty"`
	Overview   string      `json:"overview,omitempty"`
	Authors    string      `json:"authors,omitempty"`
	PosterURL  string      `json:"poster_url,omitempty"`
}
