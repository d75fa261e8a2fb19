package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ludmilasolutions/productos/internal/models"
	"github.com/ludmilasolutions/productos/internal/share"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request",
		zap.String("query", query.Query),
		zap.String("category", query.Category),
		zap.String("sort", query.Sort),
	)
	start := time.Now()
	response := s.engine.Search(&query)
	if s.metrics != nil {
		status := "miss"
		switch {
		case response.CacheHit:
			status = "hit"
		case response.Total == 0:
			status = "empty"
		}
		s.metrics.SearchesTotal.WithLabelValues(status).Inc()
		s.metrics.SearchLatency.WithLabelValues(status).Observe(time.Since(start).Seconds())
		s.metrics.SearchResultCount.Observe(float64(response.Total))
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.engine.Categories()
	if categories == nil {
		categories = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	item, ok := s.engine.ItemByCode(code)
	if !ok {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"code":    item.Code,
		"message": share.Message(item),
		"link":    share.Link(s.config.Share.WhatsAppPhone, item),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := s.engine.Reload(r.Context())
	status := s.engine.Status()
	if s.metrics != nil {
		outcome := "ok"
		switch {
		case err != nil:
			outcome = "error"
		case status.Stale:
			outcome = "stale"
		}
		s.metrics.CatalogLoadsTotal.WithLabelValues(outcome).Inc()
		if err == nil {
			s.metrics.CatalogLoadTime.Observe(time.Since(start).Seconds())
			s.metrics.CatalogItems.Set(float64(status.Items))
		}
	}
	if err != nil {
		s.logger.Error("reload failed", zap.Error(err))
		// A failed reload keeps the previous snapshot queryable; tell the
		// caller whether any catalog is still being served.
		s.respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":  err.Error(),
			"loaded": status.Loaded,
		})
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
