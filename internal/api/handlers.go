package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Rsm-Microstate/team-dev/internal/report"
	"github.com/Rsm-Microstate/team-dev/internal/scraper"
	"go.uber.org/zap"
)

const (
	msgMissingKeyword = "検索キーワードが指定されていません"
	msgFetchFailed    = "ヤフオクへのアクセスに失敗しました: "
	msgTransport      = "ヤフオクへのアクセスに失敗しました"
	msgScrapeFailed   = "スクレイピングに失敗しました"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if scraper.ValidateKeyword(keyword) != nil {
		s.respondWithError(w, http.StatusBadRequest, msgMissingKeyword)
		return
	}

	res, err := s.provider.Search(r.Context(), keyword)
	if err != nil {
		code, msg := errorResponse(err)
		if code >= http.StatusInternalServerError {
			s.logger.Error("search failed", zap.String("keyword", keyword), zap.Error(err))
		}
		s.respondWithError(w, code, msg)
		return
	}

	w.Header().Set("X-Search-Id", res.ID)
	s.respondWithJSON(w, http.StatusOK, report.NewResponse(res.ResultSet))
}

// errorResponse maps a search failure onto a status code and a message safe
// to show to clients.
func errorResponse(err error) (int, string) {
	var ve *scraper.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, msgMissingKeyword
	}
	var ff *scraper.FetchFailedError
	if errors.As(err, &ff) {
		return http.StatusInternalServerError, msgFetchFailed + strconv.Itoa(ff.StatusCode)
	}
	var te *scraper.TransportError
	if errors.As(err, &te) {
		return http.StatusInternalServerError, msgTransport
	}
	return http.StatusInternalServerError, msgScrapeFailed
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
