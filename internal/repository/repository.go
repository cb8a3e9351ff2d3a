package repository

import (
	"context"
	"time"

	"github.com/mr1hm/go-wx-alerts/internal/models"
)

type Filter struct {
	Limit       int
	Since       *time.Time
	MatchedOnly bool // only lookups that hit at least one alert polygon
}

type LookupRepository interface {
	Add(ctx context.Context, rec *models.LookupRecord) error
	ListLookups(ctx context.Context, opts Filter) ([]models.LookupRecord, error)
}
