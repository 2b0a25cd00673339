package model

type DiscoveryMode string

const (
	DiscoveryTopRated DiscoveryMode = "top-rated"
	DiscoveryPopular  DiscoveryMode = "popular"
)

func (m DiscoveryMode) Valid() bool {
	return m == DiscoveryTopRated || m == DiscoveryPopular
}

// RankedContent is a content item with its aggregate engagement.
type RankedContent struct {
	Content
	AvgScore    float64 `db:"avg_score" json:"avg_score"`
	RatingCount int     `db:"rating_count" json:"rating_count"`
	ListCount   int     `db:"list_count" json:"list_count"`
	ReviewCount int     `db:"review_count" json:"review_count"`
}

// Popularity counts list placements and reviews, not ratings.
func (r *RankedContent) Popularity() int {
	return r.ListCount + r.ReviewCount
}

type Showcase struct {
	Type        ContentType      `json:"type"`
	TopRated    []*RankedContent `json:"top_rated"`
	MostPopular []*RankedContent `json:"most_popular"`
}
