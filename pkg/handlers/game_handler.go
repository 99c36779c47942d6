package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
	"github.com/mathematicalbasedefenders/play-server/pkg/services"
	websocketHub "github.com/mathematicalbasedefenders/play-server/pkg/websocket"
)

// GameHandler maneja la conexión WebSocket de cada jugador: registro,
// despacho de acciones entrantes y limpieza al desconectar.
type GameHandler struct {
	roomService  *services.RoomService
	inputService *services.InputService
	hub          *websocketHub.Hub
}

// NewGameHandler crea una nueva instancia del handler de juego.
func NewGameHandler(roomService *services.RoomService, inputService *services.InputService, hub *websocketHub.Hub) *GameHandler {
	return &GameHandler{
		roomService:  roomService,
		inputService: inputService,
		hub:          hub,
	}
}

var upgrader = websocket.FastHTTPUpgrader{
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return true // Permitir conexiones desde cualquier origen en desarrollo
	},
}

// HandleWebSocket maneja las conexiones WebSocket
func (g *GameHandler) HandleWebSocket(ctx *fasthttp.RequestCtx) {
	name := string(ctx.QueryArgs().Peek("name"))
	if name == "" {
		name = fmt.Sprintf("Guest-%04d", rand.Intn(10000))
	}

	err := upgrader.Upgrade(ctx, func(ws *websocket.Conn) {
		connectionID := g.hub.Register(ws)
		defer func() {
			g.roomService.HandleDisconnect(connectionID)
			g.hub.Unregister(connectionID)
		}()

		g.hub.Send(connectionID, models.OutboundWelcome, models.WelcomeData{
			ConnectionID: connectionID,
			PlayerName:   name,
		})

		// Escuchar mensajes del cliente
		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				return
			}
			g.dispatch(connectionID, name, raw)
		}
	})

	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		ctx.Error("Error upgrading to WebSocket", fasthttp.StatusInternalServerError)
	}
}

// dispatch interpreta un mensaje entrante. Los errores de protocolo se
// registran y se descartan; la conexión queda abierta.
func (g *GameHandler) dispatch(connectionID, name string, raw []byte) {
	var msg models.InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("⚠️ Mensaje malformado de %s: %v", connectionID, err)
		return
	}

	switch msg.Action {
	case models.InboundStart:
		g.handleStart(connectionID, name, msg)
	case models.InboundKeypress:
		g.handleKeypress(connectionID, msg)
	case models.InboundJoinRoom:
		g.handleJoinRoom(connectionID, name, msg)
	case models.InboundLeaveRoom:
		g.handleLeave(connectionID)
	case models.InboundChatMessage:
		g.handleChat(connectionID, name, msg)
	default:
		log.Printf("⚠️ Acción desconocida %q de %s", msg.Action, connectionID)
	}
}

func (g *GameHandler) handleStart(connectionID, name string, msg models.InboundMessage) {
	var mode string
	if len(msg.Args) > 0 {
		if err := json.Unmarshal(msg.Args, &mode); err != nil {
			log.Printf("⚠️ Argumentos inválidos en start de %s: %v", connectionID, err)
			return
		}
	}

	switch models.GameMode(mode) {
	case models.ModeMultiplayer:
		// Arrancar la sala multijugador en la que ya está el jugador.
		room, ok := g.roomService.FindRoom(connectionID, false)
		if !ok {
			g.hub.Send(connectionID, models.OutboundError, "no estás en ninguna sala")
			return
		}
		room.Mu.Lock()
		err := room.Start()
		room.Mu.Unlock()
		if err != nil {
			log.Printf("⚠️ %v", err)
			return
		}
		log.Printf("🟢 Partida multijugador iniciada en la sala %s", room.Code)
	default:
		room, err := g.roomService.StartSingleplayer(connectionID, name)
		if err != nil {
			g.hub.Send(connectionID, models.OutboundError, "no se pudo iniciar la partida")
			log.Printf("⚠️ Error iniciando partida individual: %v", err)
			return
		}
		log.Printf("🟢 Partida individual iniciada en la sala %s", room.Code)
	}
}

func (g *GameHandler) handleKeypress(connectionID string, msg models.InboundMessage) {
	var codes []string
	if err := json.Unmarshal(msg.Args, &codes); err != nil || len(codes) == 0 {
		log.Printf("⚠️ Argumentos inválidos en keypress de %s", connectionID)
		return
	}
	code := codes[0]

	room, ok := g.roomService.FindRoom(connectionID, false)
	if !ok {
		return
	}

	action := g.inputService.Classify(code)
	if action == services.ActionUnknown {
		return
	}
	if action == services.ActionAbort {
		// Salir al menú: lo resuelve la capa de sesión.
		g.handleLeave(connectionID)
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if !room.Playing {
		return
	}
	gd, found := room.FindGameData(connectionID)
	if !found {
		return
	}
	g.inputService.Apply(action, code, gd)
}

func (g *GameHandler) handleJoinRoom(connectionID, name string, msg models.InboundMessage) {
	var (
		room      *models.Room
		spectator bool
		err       error
	)
	if msg.Room == "" {
		room = g.roomService.JoinDefault(connectionID, name)
	} else {
		room, spectator, err = g.roomService.JoinRoom(msg.Room, connectionID, name)
		if err != nil {
			g.hub.Send(connectionID, models.OutboundError, err.Error())
			return
		}
	}

	room.Mu.Lock()
	players := len(room.MemberIDs)
	mode := string(room.Mode)
	code := room.Code
	room.Mu.Unlock()

	g.hub.Send(connectionID, models.OutboundRoomJoined, models.RoomJoinedData{
		Room:      code,
		Mode:      mode,
		Spectator: spectator,
		Players:   players,
	})
	log.Printf("🚪 %s entró a la sala %s (espectador: %v)", name, code, spectator)
}

func (g *GameHandler) handleLeave(connectionID string) {
	if code, ok := g.roomService.LeaveRoom(connectionID); ok {
		g.hub.Send(connectionID, models.OutboundRoomLeft, code)
	}
}

func (g *GameHandler) handleChat(connectionID, name string, msg models.InboundMessage) {
	if msg.Message == "" {
		return
	}
	room, ok := g.roomService.FindRoom(connectionID, true)
	if !ok {
		return
	}

	room.Mu.Lock()
	recipients := append(append([]string(nil), room.MemberIDs...), room.SpectatorIDs...)
	room.Mu.Unlock()

	// El chat es retransmisión pura, no forma parte de la simulación.
	g.hub.SendToMany(recipients, models.OutboundChat, models.ChatData{
		From:    name,
		Message: msg.Message,
	})
}
