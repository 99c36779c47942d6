package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
	"github.com/mathematicalbasedefenders/play-server/pkg/services"
)

const defaultLeaderboardLimit = 20

// ScoreHandler maneja las peticiones HTTP de puntajes y récords.
type ScoreHandler struct {
	scoreService *services.ScoreService
}

// NewScoreHandler crea una nueva instancia del handler de puntajes.
func NewScoreHandler(scoreService *services.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
	}
}

// GetLeaderboard maneja GET /api/leaderboard
func (h *ScoreHandler) GetLeaderboard(ctx *fasthttp.RequestCtx) {
	limit := defaultLeaderboardLimit
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	leaderboard, err := h.scoreService.GetLeaderboard(limit)
	if err != nil {
		h.respondWithError(ctx, fasthttp.StatusInternalServerError, fmt.Sprintf("Error obteniendo tabla de posiciones: %v", err))
		return
	}

	h.respondWithSuccess(ctx, leaderboard, "Tabla de posiciones obtenida exitosamente")
}

// GetPlayerBest maneja GET /api/scores/player/{playerName}
func (h *ScoreHandler) GetPlayerBest(ctx *fasthttp.RequestCtx) {
	playerName := ctx.UserValue("playerName").(string)

	best, err := h.scoreService.GetPersonalBest(playerName)
	if err != nil {
		h.respondWithError(ctx, fasthttp.StatusInternalServerError, fmt.Sprintf("Error obteniendo récord de %s: %v", playerName, err))
		return
	}

	h.respondWithSuccess(ctx, map[string]interface{}{
		"playerName":   playerName,
		"personalBest": best,
	}, "Récord personal obtenido exitosamente")
}

func (h *ScoreHandler) respondWithError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	response := models.APIResponse{
		Success: false,
		Error:   message,
	}
	h.respondWithJSON(ctx, statusCode, response)
}

func (h *ScoreHandler) respondWithSuccess(ctx *fasthttp.RequestCtx, data interface{}, message string) {
	response := models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
	h.respondWithJSON(ctx, fasthttp.StatusOK, response)
}

func (h *ScoreHandler) respondWithJSON(ctx *fasthttp.RequestCtx, statusCode int, data interface{}) {
	ctx.SetStatusCode(statusCode)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(data)
}
