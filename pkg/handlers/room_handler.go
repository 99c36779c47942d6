package handlers

import (
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
	"github.com/mathematicalbasedefenders/play-server/pkg/services"
)

// RoomHandler maneja las peticiones HTTP sobre salas.
type RoomHandler struct {
	roomService  *services.RoomService
	scoreService *services.ScoreService
}

// NewRoomHandler crea una nueva instancia del handler de salas.
func NewRoomHandler(roomService *services.RoomService, scoreService *services.ScoreService) *RoomHandler {
	return &RoomHandler{
		roomService:  roomService,
		scoreService: scoreService,
	}
}

// HealthCheck maneja GET /api/health
func (h *RoomHandler) HealthCheck(ctx *fasthttp.RequestCtx) {
	if err := h.scoreService.HealthCheck(); err != nil {
		h.respondWithError(ctx, fasthttp.StatusServiceUnavailable, "Persistencia no disponible")
		return
	}

	h.respondWithSuccess(ctx, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}, "Servidor funcionando correctamente")
}

// ListRooms maneja GET /api/rooms
func (h *RoomHandler) ListRooms(ctx *fasthttp.RequestCtx) {
	rooms := h.roomService.ListRooms()
	h.respondWithSuccess(ctx, map[string]interface{}{
		"rooms": rooms,
		"count": len(rooms),
	}, "Salas obtenidas exitosamente")
}

// CreateRoom maneja POST /api/rooms
func (h *RoomHandler) CreateRoom(ctx *fasthttp.RequestCtx) {
	var request struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &request); err != nil {
		h.respondWithError(ctx, fasthttp.StatusBadRequest, "JSON inválido")
		return
	}

	mode := models.GameMode(request.Mode)
	if mode != models.ModeSingleplayer && mode != models.ModeMultiplayer {
		mode = models.ModeMultiplayer
	}

	room := h.roomService.CreateRoom(mode)
	h.respondWithSuccess(ctx, map[string]interface{}{
		"code": room.Code,
		"mode": string(room.Mode),
	}, "Sala creada exitosamente")
}

func (h *RoomHandler) respondWithError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	response := models.APIResponse{
		Success: false,
		Error:   message,
	}
	h.respondWithJSON(ctx, statusCode, response)
}

func (h *RoomHandler) respondWithSuccess(ctx *fasthttp.RequestCtx, data interface{}, message string) {
	response := models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
	h.respondWithJSON(ctx, fasthttp.StatusOK, response)
}

func (h *RoomHandler) respondWithJSON(ctx *fasthttp.RequestCtx, statusCode int, data interface{}) {
	ctx.SetStatusCode(statusCode)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(data)
}
