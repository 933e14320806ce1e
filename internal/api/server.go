package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/aeeint/lego/internal/models"
	"github.com/aeeint/lego/internal/storage"
)

const defaultLimit = 12

// searchResponse is the envelope every search endpoint returns.
type searchResponse[T any] struct {
	Limit   int `json:"limit"`
	Total   int `json:"total"`
	Results []T `json:"results"`
}

// Server serves the stored datasets over HTTP. Every request reads the
// stores from disk, so a concurrent scraper run is picked up without a
// restart.
type Server struct {
	dealStore *storage.Store[models.Deal]
	saleStore *storage.Store[models.Sale]
}

func NewServer(dealStore *storage.Store[models.Deal], saleStore *storage.Store[models.Sale]) *Server {
	return &Server{dealStore: dealStore, saleStore: saleStore}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /deals/search", s.handleDealSearch)
	mux.HandleFunc("GET /deals/{id}", s.handleDealByID)
	mux.HandleFunc("GET /sales/search", s.handleSaleSearch)
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ack": true})
}

// handleDealSearch filters deals by optional price ceiling and date floor,
// then sorts by price ascending or by publication date, newest first.
func (s *Server) handleDealSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	deals := s.dealStore.Load()
	filtered := make([]models.Deal, 0, len(deals))

	var maxPrice *float64
	if v := r.URL.Query().Get("price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid price")
			return
		}
		maxPrice = &p
	}

	var minDate *time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected RFC 3339")
			return
		}
		minDate = &t
	}

	for _, d := range deals {
		if maxPrice != nil && (d.Price == nil || *d.Price > *maxPrice) {
			continue
		}
		if minDate != nil {
			published, ok := publishedTime(d.PublishedAt)
			if !ok || published.Before(*minDate) {
				continue
			}
		}
		filtered = append(filtered, d)
	}

	switch r.URL.Query().Get("sortBy") {
	case "date":
		sort.SliceStable(filtered, func(i, j int) bool {
			ti, _ := publishedTime(filtered[i].PublishedAt)
			tj, _ := publishedTime(filtered[j].PublishedAt)
			return ti.After(tj)
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return priceOrInf(filtered[i].Price) < priceOrInf(filtered[j].Price)
		})
	}

	writeJSON(w, http.StatusOK, searchResponse[models.Deal]{
		Limit:   limit,
		Total:   len(filtered),
		Results: truncate(filtered, limit),
	})
}

// handleDealByID returns the deals carrying the requested catalog id.
func (s *Server) handleDealByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var matches []models.Deal
	for _, d := range s.dealStore.Load() {
		if d.CatalogID != nil && *d.CatalogID == id {
			matches = append(matches, d)
		}
	}
	if len(matches) == 0 {
		writeError(w, http.StatusNotFound, "no deal found for id "+id)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse[models.Deal]{
		Limit:   len(matches),
		Total:   len(matches),
		Results: matches,
	})
}

// handleSaleSearch returns stored resale listings for a catalog id,
// newest first.
func (s *Server) handleSaleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	setID := r.URL.Query().Get("legoSetId")
	sales := s.saleStore.Load()
	filtered := make([]models.Sale, 0, len(sales))
	for _, sale := range sales {
		if setID != "" && sale.CatalogID != setID {
			continue
		}
		filtered = append(filtered, sale)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		ti, okI := publishedTime(&filtered[i].PublishedAt)
		tj, okJ := publishedTime(&filtered[j].PublishedAt)
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})

	writeJSON(w, http.StatusOK, searchResponse[models.Sale]{
		Limit:   limit,
		Total:   len(filtered),
		Results: truncate(filtered, limit),
	})
}

func limitParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if limit < 1 {
		return 0, fmt.Errorf("limit %d out of range", limit)
	}
	return limit, nil
}

func publishedTime(iso *string) (time.Time, bool) {
	if iso == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// priceOrInf sorts unpriced deals last.
func priceOrInf(p *float64) float64 {
	if p == nil {
		return math.Inf(1)
	}
	return *p
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
