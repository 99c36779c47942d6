package models

import (
	"encoding/json"
	"time"
)

// Acciones entrantes aceptadas por el servidor. El despachador las trata
// como un conjunto cerrado: cualquier otra acción es un error de protocolo
// que se registra y se descarta sin cerrar la conexión.
const (
	InboundStart       = "start"
	InboundKeypress    = "keypress"
	InboundJoinRoom    = "joinRoom"
	InboundLeaveRoom   = "leaveRoom"
	InboundChatMessage = "sendChatMessage"
)

// Tipos de mensajes salientes hacia los clientes.
const (
	OutboundWelcome    = "welcome"
	OutboundRoomJoined = "roomJoined"
	OutboundRoomLeft   = "roomLeft"
	OutboundGameState  = "gameState"
	OutboundGameOver   = "gameOver"
	OutboundChat       = "chatMessage"
	OutboundError      = "error"
)

// InboundMessage es el sobre de toda acción recibida por WebSocket.
type InboundMessage struct {
	Action  string          `json:"action"`
	Args    json.RawMessage `json:"args,omitempty"`
	Room    string          `json:"room,omitempty"`
	Message string          `json:"message,omitempty"`
}

// OutboundMessage es el sobre de todo mensaje emitido por WebSocket.
type OutboundMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// WelcomeData se envía una única vez al conectarse.
type WelcomeData struct {
	ConnectionID string `json:"connectionId"`
	PlayerName   string `json:"playerName"`
}

// RoomJoinedData confirma la entrada a una sala.
type RoomJoinedData struct {
	Room      string `json:"room"`
	Mode      string `json:"mode"`
	Spectator bool   `json:"spectator"`
	Players   int    `json:"players"`
}

// ChatData es un mensaje de chat retransmitido a la sala sin simular.
type ChatData struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// EnemySnapshot es la vista pública de un enemigo. No incluye el
// RequestedValue: la respuesta nunca viaja al cliente.
type EnemySnapshot struct {
	ID            string  `json:"id"`
	DisplayedText string  `json:"displayedText"`
	SPosition     float64 `json:"sPosition"`
	Speed         float64 `json:"speed"`
	XPosition     float64 `json:"xPosition"`
}

// GameDataSnapshot es el estado serializado de un jugador para un tick.
// EnemiesToErase solo contiene los ids retirados desde el último envío.
type GameDataSnapshot struct {
	Owner          string          `json:"owner"`
	OwnerName      string          `json:"ownerName"`
	Score          int             `json:"score"`
	BaseHealth     int             `json:"baseHealth"`
	Combo          int             `json:"combo"`
	CurrentInput   string          `json:"currentInput"`
	ElapsedTime    float64         `json:"elapsedTime"`
	Eliminated     bool            `json:"eliminated"`
	UpdateNumber   int             `json:"updateNumber"`
	Enemies        []EnemySnapshot `json:"enemies"`
	EnemiesToErase []string        `json:"enemiesToErase"`
}

// GameOverData resume la partida terminada para su dueño.
type GameOverData struct {
	Score         int     `json:"score"`
	EnemiesKilled int     `json:"enemiesKilled"`
	ElapsedTime   float64 `json:"elapsedTime"`
	Flagged       bool    `json:"flagged"`
	Annotation    string  `json:"annotation"`
}

// ScoreRecord es el registro persistido de una partida terminada.
type ScoreRecord struct {
	ID            string    `json:"id"`
	GameSessionID string    `json:"gameSessionId"`
	PlayerName    string    `json:"playerName"`
	Mode          GameMode  `json:"mode"`
	Score         int       `json:"score"`
	EnemiesKilled int       `json:"enemiesKilled"`
	ElapsedTime   float64   `json:"elapsedTime"`
	Flagged       bool      `json:"flagged"`
	FlagReason    string    `json:"flagReason,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// RoomInfo entrada del listado público de salas.
type RoomInfo struct {
	Code       string `json:"code"`
	Mode       string `json:"mode"`
	Players    int    `json:"players"`
	Spectators int    `json:"spectators"`
	Playing    bool   `json:"playing"`
}

// LeaderboardEntry entrada en la tabla de posiciones.
type LeaderboardEntry struct {
	Position   int    `json:"position"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

// LeaderboardResponse respuesta de la tabla de posiciones.
type LeaderboardResponse struct {
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
	TotalPlayers int                `json:"totalPlayers"`
}

// APIResponse estructura estándar para respuestas de API
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
