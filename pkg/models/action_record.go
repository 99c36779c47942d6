package models

// Acciones registradas en la bitácora de una partida
const (
	ActionRecordKeypress         = "keypress"
	ActionRecordEnemySpawn       = "enemySpawn"
	ActionRecordEnemyKill        = "enemyKill"
	ActionRecordEnemyReachedBase = "enemyReachedBase"
	ActionRecordGameStart        = "gameStart"
	ActionRecordGameOver         = "gameOver"
)

// ActionRecord es una entrada inmutable de la bitácora de la partida.
// Se escribe una vez por cada evento aceptado y nunca se modifica; el
// verificador anticheat la consume tal cual para reconstruir la sesión.
type ActionRecord struct {
	Timestamp int64                  `json:"timestamp"` // milisegundos desde el inicio de la partida
	Action    string                 `json:"action"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
