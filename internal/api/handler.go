package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-wx-alerts/internal/dataset"
	"github.com/mr1hm/go-wx-alerts/internal/match"
	"github.com/mr1hm/go-wx-alerts/internal/models"
	"github.com/mr1hm/go-wx-alerts/internal/repository"
	"github.com/mr1hm/go-wx-alerts/internal/worker"
)

// DatasetProvider yields the current dataset snapshot, or nil before the
// first successful refresh.
type DatasetProvider interface {
	Current() *dataset.Dataset
}

type Handler struct {
	datasets DatasetProvider
	repo     repository.LookupRepository
	pool     *worker.Pool
}

func NewHandler(datasets DatasetProvider, repo repository.LookupRepository, pool *worker.Pool) *Handler {
	return &Handler{
		datasets: datasets,
		repo:     repo,
		pool:     pool,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/alerts", h.getAlerts)
	r.GET("/api/lookups", h.getLookups)
	r.GET("/health", h.health)
}

type alertResponse struct {
	Index   int    `json:"index"`
	Event   string `json:"event"`
	Issued  string `json:"issued"`
	Expires string `json:"expires"`
	Office  string `json:"office"`
	Areas   string `json:"areas"`
	Text    string `json:"text"`
}

func (h *Handler) getAlerts(c *gin.Context) {
	lat, lon, ok := parseCoordinate(c)
	if !ok {
		return
	}

	ds := h.datasets.Current()
	if ds == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "alert dataset not loaded yet",
		})
		return
	}

	results, err := ds.Lookup(lat, lon)
	if err != nil {
		var integrity *models.DataIntegrityError
		if errors.As(err, &integrity) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "alert dataset is inconsistent",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to match alerts",
		})
		return
	}

	alerts := make([]alertResponse, 0, len(results))
	headlines := make([]string, 0, len(results))
	for _, res := range results {
		rec := res.Record
		alerts = append(alerts, alertResponse{
			Index:   res.Index,
			Event:   rec.Text(models.FieldProdType),
			Issued:  rec.Text(models.FieldIssuance),
			Expires: rec.Text(models.FieldExpiration),
			Office:  rec.Text(models.FieldOffice),
			Areas:   match.FormatAreas(rec.Text(models.FieldAreas)),
			Text:    match.Format(res),
		})
		headlines = append(headlines, rec.Text(models.FieldProdType))
	}

	if h.pool != nil {
		h.pool.Submit(&models.LookupRecord{
			ID:         fmt.Sprintf("lookup_%d", time.Now().UnixNano()),
			Latitude:   lat,
			Longitude:  lon,
			MatchCount: len(results),
			Headlines:  headlines,
			CreatedAt:  time.Now(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"latitude":  lat,
		"longitude": lon,
		"count":     len(alerts),
		"alerts":    alerts,
	})
}

func (h *Handler) getLookups(c *gin.Context) {
	filter := repository.Filter{
		Limit: 20,
	}

	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	if m := c.Query("matched_only"); m != "" {
		if b, err := strconv.ParseBool(m); err == nil {
			filter.MatchedOnly = b
		}
	}

	lookups, err := h.repo.ListLookups(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch lookups",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(lookups),
		"lookups": lookups,
	})
}

func (h *Handler) health(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if ds := h.datasets.Current(); ds != nil {
		status["shapes"] = len(ds.Shapes)
	} else {
		status["status"] = "loading"
	}
	c.JSON(http.StatusOK, status)
}

func parseCoordinate(c *gin.Context) (lat, lon float64, ok bool) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "lat and lon query parameters are required",
		})
		return 0, 0, false
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "lat and lon must be decimal degrees",
		})
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "coordinate out of range",
		})
		return 0, 0, false
	}

	return lat, lon, true
}
