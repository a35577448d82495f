// Package movies searches the demo movie catalog model.
package movies

import (
	"context"
	"strings"

	"github.com/vendra/vendra/pkg/gateway"
	"github.com/vendra/vendra/pkg/rpc"
)

// Model is the remote movie model.
const Model = "movie.movie"

// DefaultLimit caps a movie search when no limit is given.
const DefaultLimit = 80

// Fields selects the columns a movie listing needs.
var Fields = []string{"name", "genre", "release_date", "rating"}

// Movie is one catalog entry.
type Movie struct {
	ID          int64
	Name        string
	Genre       string
	ReleaseDate string
	Rating      float64
}

// FromRecord maps a raw movie record, tolerating unset fields.
func FromRecord(rec rpc.Record) Movie {
	return Movie{
		ID:          rec.ID(),
		Name:        rec.String("name"),
		Genre:       rec.String("genre"),
		ReleaseDate: rec.String("release_date"),
		Rating:      rec.Float("rating"),
	}
}

// Service searches movies through an authenticated gateway.
type Service struct {
	gw *gateway.Gateway
}

func NewService(gw *gateway.Gateway) *Service {
	return &Service{gw: gw}
}

// Search returns movies whose name matches term, optionally restricted to a
// genre. A blank term matches everything.
func (s *Service) Search(ctx context.Context, term, genre string, limit int) ([]Movie, error) {
	d := gateway.Domain{}
	if term = strings.TrimSpace(term); term != "" {
		d = d.Add(gateway.Condition("name", "ilike", term))
	}
	if genre = strings.TrimSpace(genre); genre != "" {
		d = d.Add(gateway.Condition("genre", "=", genre))
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	records, err := s.gw.SearchRead(ctx, Model, d, Fields,
		&gateway.QueryOptions{Limit: limit, Order: "name"})
	if err != nil {
		return nil, err
	}
	movies := make([]Movie, 0, len(records))
	for _, rec := range records {
		movies = append(movies, FromRecord(rec))
	}
	return movies, nil
}
