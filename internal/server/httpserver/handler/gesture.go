// Package handler provides HTTP request handlers for AirSig.
package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/airsig/airsig-go/internal/core/domain"
	"github.com/airsig/airsig-go/internal/core/gesture"
)

// handleScoreGesture handles POST /v1/gestures/score.
//
// Practice endpoint: scores a recorded path against the template
// catalog without touching any session.
func (h *Handler) handleScoreGesture(w http.ResponseWriter, r *http.Request) {
	var req ScoreGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "AS-SYS-4000", "invalid request body", nil)
		return
	}

	points := pointsToDomain(req.Points)

	var catalog []domain.GestureTemplate
	if req.TemplateID != "" {
		tpl, ok := domain.TemplateByID(req.TemplateID)
		if !ok {
			h.writeError(w, r, http.StatusNotFound, "AS-ARG-1001", "unknown template_id", nil)
			return
		}
		catalog = []domain.GestureTemplate{tpl}
	} else {
		catalog = domain.Templates()
	}

	scores := make([]TemplateScore, 0, len(catalog))
	for _, tpl := range catalog {
		scores = append(scores, TemplateScore{
			TemplateID: tpl.ID,
			Name:       tpl.Name,
			Similarity: gesture.Score(points, tpl),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Similarity > scores[j].Similarity
	})

	resp := ScoreGestureResponse{
		Signature: gesture.Generate(points),
		Scores:    scores,
	}
	if len(scores) > 0 && scores[0].Similarity > gesture.MinSimilarity {
		best := scores[0]
		resp.Best = &best
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}
