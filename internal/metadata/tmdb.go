package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/templui/shelf/internal/model"
)

// castLimit is how many billed actors are kept on import.
const castLimit = 5

type tmdbMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	Runtime     *int   `json:"runtime"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

type tmdbSearchResponse struct {
	Results []tmdbMovie `json:"results"`
}

// MovieDetails loads overview, director, top cast, genres and runtime for a
// TMDb movie id.
func (c *Client) MovieDetails(ctx context.Context, externalID string) (*model.MovieDetails, error) {
	if c.cfg.TMDbAPIKey == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(externalID) == "" {
		return nil, ErrNotFound
	}

	params := url.Values{}
	params.Set("api_key", c.cfg.TMDbAPIKey)
	params.Set("language", c.cfg.TMDbLanguage)
	params.Set("append_to_response", "credits")

	body, err := c.get(ctx, ProviderTMDb, c.tmdb, buildURL(c.cfg.TMDbBaseURL, "/movie/"+url.PathEscape(externalID), params))
	if err != nil {
		return nil, err
	}

	var movie tmdbMovie
	err = json.Unmarshal(body, &movie)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tmdb movie: %w", err)
	}

	details := &model.MovieDetails{
		Overview: movie.Overview,
		Runtime:  movie.Runtime,
		Cast:     []string{},
		Genres:   []string{},
	}

	for _, person := range movie.Credits.Crew {
		if person.Job == "Director" {
			details.Director = person.Name
			break
		}
	}

	for _, person := range movie.Credits.Cast {
		if len(details.Cast) == castLimit {
			break
		}
		if person.Name != "" {
			details.Cast = append(details.Cast, person.Name)
		}
	}

	for _, g := range movie.Genres {
		if g.Name != "" {
			details.Genres = append(details.Genres, g.Name)
		}
	}

	return details, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string) ([]*model.SearchResult, error) {
	results := []*model.SearchResult{}
	query = strings.TrimSpace(query)
	if query == "" {
		return results, nil
	}
	if c.cfg.TMDbAPIKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("api_key", c.cfg.TMDbAPIKey)
	params.Set("query", query)
	params.Set("language", c.cfg.TMDbLanguage)
	params.Set("include_adult", strconv.FormatBool(c.cfg.TMDbIncludeAdult))

	body, err := c.get(ctx, ProviderTMDb, c.tmdb, buildURL(c.cfg.TMDbBaseURL, "/search/movie", params))
	if err != nil {
		return nil, err
	}

	var resp tmdbSearchResponse
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tmdb search: %w", err)
	}

	for _, m := range resp.Results {
		title := m.Title
		if title == "" {
			title = m.Name
		}
		if title == "" {
			title = "Untitled"
		}

		result := &model.SearchResult{
			Source:     model.SourceTMDb,
			ExternalID: strconv.Itoa(m.ID),
			Type:       model.ContentTypeMovie,
			Title:      title,
			Year:       releaseYear(m.ReleaseDate),
			Overview:   m.Overview,
		}
		if m.PosterPath != "" {
			result.PosterURL = strings.TrimSuffix(c.cfg.TMDbImageBase, "/") + m.PosterPath
		}
		results = append(results, result)
	}

	return results, nil
}

// releaseYear reads the year from a YYYY-MM-DD date.
func releaseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}
