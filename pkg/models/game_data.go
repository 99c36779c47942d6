package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GameMode distingue el comportamiento de la partida (reglas de fin y
// puntaje); los datos compartidos viven todos en GameData, sin herencia.
type GameMode string

const (
	ModeSingleplayer GameMode = "singleplayer"
	ModeMultiplayer  GameMode = "multiplayer"
)

const (
	// StartingBaseHealth salud inicial de la base de cada jugador
	StartingBaseHealth = 100
	// MaxInputLength largo máximo del buffer de entrada (dígitos y signo)
	MaxInputLength = 8
	// ClockEnemySpawn reloj de cadencia de aparición de enemigos
	ClockEnemySpawn = "enemySpawn"
	// ClockComboReset reloj que expira el combo si no hay kills
	ClockComboReset = "comboReset"
	// DefaultEnemySpawnTime umbral del reloj de aparición en ms
	DefaultEnemySpawnTime = 100.0
	// DefaultComboResetTime ms sin kills antes de perder el combo
	DefaultComboResetTime = 5000.0
)

// Clock acumula tiempo hasta cruzar su umbral de acción.
type Clock struct {
	CurrentTime float64 `json:"currentTime"`
	ActionTime  float64 `json:"actionTime"`
}

// GameData es el estado autoritativo de un jugador dentro de una sala.
// Es propiedad exclusiva de su Room: toda mutación ocurre bajo el mutex
// de la sala, nunca desde afuera.
type GameData struct {
	OwnerConnectionID string            `json:"ownerConnectionId"`
	OwnerName         string            `json:"ownerName"`
	GameSessionID     string            `json:"gameSessionId"`
	Mode              GameMode          `json:"mode"`
	Score             int               `json:"score"`
	BaseHealth        int               `json:"baseHealth"`
	Combo             int               `json:"combo"`
	CurrentInput      string            `json:"currentInput"`
	Enemies           map[string]*Enemy `json:"enemies"`
	EnemiesToErase    []string          `json:"enemiesToErase"`
	Clocks            map[string]*Clock `json:"clocks"`
	ElapsedTime       float64           `json:"elapsedTime"` // ms desde el inicio
	EnemiesKilled     int               `json:"enemiesKilled"`
	Eliminated        bool              `json:"eliminated"`
	StartTime         time.Time         `json:"startTime"`
	ActionLog         []ActionRecord    `json:"-"`

	enemyCounter int
}

// NewGameData crea el estado inicial de un jugador al comenzar la partida.
func NewGameData(ownerConnectionID, ownerName string, mode GameMode) *GameData {
	gd := &GameData{
		OwnerConnectionID: ownerConnectionID,
		OwnerName:         ownerName,
		GameSessionID:     uuid.New().String(),
		Mode:              mode,
		BaseHealth:        StartingBaseHealth,
		Enemies:           make(map[string]*Enemy),
		Clocks: map[string]*Clock{
			ClockEnemySpawn: {ActionTime: DefaultEnemySpawnTime},
			ClockComboReset: {ActionTime: DefaultComboResetTime},
		},
		StartTime: time.Now(),
	}
	gd.AppendAction(ActionRecordGameStart, map[string]interface{}{
		"mode": string(mode),
	})
	return gd
}

// AppendAction agrega una entrada a la bitácora con el tiempo de partida
// transcurrido hasta ahora.
func (gd *GameData) AppendAction(action string, data map[string]interface{}) {
	gd.ActionLog = append(gd.ActionLog, ActionRecord{
		Timestamp: time.Since(gd.StartTime).Milliseconds(),
		Action:    action,
		Data:      data,
	})
}

// NextEnemyID devuelve un identificador único dentro de este GameData,
// combinando el dueño, el tick de la sala y un contador propio.
func (gd *GameData) NextEnemyID(updateNumber int) string {
	gd.enemyCounter++
	return fmt.Sprintf("%s-%d-%d", gd.OwnerConnectionID, updateNumber, gd.enemyCounter)
}

// eraseEnemy quita el enemigo del conjunto vivo y lo anota en la lista
// transitoria que viaja en el próximo broadcast.
func (gd *GameData) eraseEnemy(id string) {
	delete(gd.Enemies, id)
	gd.EnemiesToErase = append(gd.EnemiesToErase, id)
}
