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

const openLibrarySearchLimit = 20

type openLibraryResponse struct {
	NumFound int `json:"num_found"`
	Docs     []struct {
		Key              string   `json:"key"`
		Title            string   `json:"title"`
		FirstPublishYear *int     `json:"first_publish_year"`
		AuthorName       []string `json:"author_name"`
		CoverID          *int     `json:"cover_i"`
		EditionKey       []string `json:"edition_key"`
	} `json:"docs"`
}

// SearchBooks searches Open Library by title. A result's external id is its
// first edition key, or the work key when the doc lists no editions.
func (c *Client) SearchBooks(ctx context.Context, query string) ([]*model.SearchResult, error) {
	results := []*model.SearchResult{}
	query = strings.TrimSpace(query)
	if query == "" {
		return results, nil
	}

	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", strconv.Itoa(openLibrarySearchLimit))

	body, err := c.get(ctx, ProviderOpenLibrary, c.openLibrary, buildURL(c.cfg.OpenLibraryBaseURL, "/search.json", params))
	if err != nil {
		return nil, err
	}

	var resp openLibraryResponse
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to decode open library search: %w", err)
	}

	for _, doc := range resp.Docs {
		externalID := doc.Key
		if len(doc.EditionKey) > 0 {
			externalID = doc.EditionKey[0]
		}
		if externalID == "" {
			continue
		}

		title := doc.Title
		if title == "" {
			title = "Untitled"
		}

		result := &model.SearchResult{
			Source:     model.SourceOpenLibrary,
			ExternalID: externalID,
			Type:       model.ContentTypeBook,
			Title:      title,
			Year:       doc.FirstPublishYear,
			Authors:    strings.Join(doc.AuthorName, ", "),
		}
		if doc.CoverID != nil {
			result.PosterURL = fmt.Sprintf("%s/%d-M.jpg", strings.TrimSuffix(c.cfg.OpenLibraryCoverBase, "/"), *doc.CoverID)
		}
		results = append(results, result)
	}

	return results, nil
}
