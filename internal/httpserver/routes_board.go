package httpserver

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/game"
)

type categoryRow struct {
	category.Category
	WordCount int `json:"wordCount"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.deps.Registry.Categories()
	out := make([]categoryRow, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryRow{Category: c, WordCount: len(s.deps.Registry.WordList(c.ID))})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleLeaderboard serves GET /leaderboard?category=animals&mode=speedrun&limit=20.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cat := category.ID(category.Normalize(q.Get("category")))
	if !s.deps.Registry.Has(cat) {
		writeError(w, http.StatusBadRequest, "unknown_category", q.Get("category"))
		return
	}
	mode, ok := game.ParseMode(q.Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_mode", q.Get("mode"))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit > 100 {
		limit = 100
	}
	if s.deps.Leaderboard == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	rows, err := s.deps.Leaderboard.Top(r.Context(), cat, string(mode), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
