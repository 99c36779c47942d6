package models

import "math"

const (
	// EnemyBaseScore puntos base por eliminar un enemigo
	EnemyBaseScore = 100.0
	// EnemyPositionBonus bono máximo por eliminar lejos de la base
	EnemyPositionBonus = 50.0
	// EnemyBaseDamage daño a la base cuando un enemigo la alcanza
	EnemyBaseDamage = 10
	// DefaultEnemySpeed distancia recorrida por milisegundo (cruza el campo en ~10s)
	DefaultEnemySpeed = 0.0001
	// ComboCoefficientStep incremento del multiplicador por cada kill consecutivo
	ComboCoefficientStep = 0.1
)

// Enemy representa una entidad hostil con una respuesta numérica asociada.
// Pertenece a exactamente un GameData; solo Room.Update lo mueve y solo
// Kill/Remove lo destruyen.
type Enemy struct {
	ID             string  `json:"id"`
	RequestedValue int     `json:"requestedValue"`
	DisplayedText  string  `json:"displayedText"`
	SPosition      float64 `json:"sPosition"` // 1 = borde de aparición, <=0 = llegó a la base
	Speed          float64 `json:"speed"`
	XPosition      float64 `json:"xPosition"`
}

// NewEnemy construye un enemigo nuevo en el borde de aparición.
// Siempre se crea un valor fresco, nunca se clona una plantilla compartida.
func NewEnemy(id string, requestedValue int, displayedText string, xPosition float64) *Enemy {
	return &Enemy{
		ID:             id,
		RequestedValue: requestedValue,
		DisplayedText:  displayedText,
		SPosition:      1.0,
		Speed:          DefaultEnemySpeed,
		XPosition:      xPosition,
	}
}

// Move acerca el enemigo a la base la distancia indicada.
func (e *Enemy) Move(distance float64) {
	e.SPosition -= distance
}

// Check compara la respuesta solicitada con el valor ingresado.
func (e *Enemy) Check(input int) bool {
	return e.RequestedValue == input
}

// CalculateScore calcula los puntos otorgados por eliminar este enemigo:
// base más un bono por distancia, escalado por el coeficiente de combo.
func (e *Enemy) CalculateScore(comboCoefficient float64) int {
	base := EnemyBaseScore + math.Max(0, (e.SPosition-0.5)*EnemyPositionBonus)
	return int(math.Round(base * comboCoefficient))
}

// Kill otorga puntaje al dueño y retira el enemigo. Si el enemigo ya no
// existe en el GameData la llamada es un no-op (las carreras de red hacen
// esperables los eventos duplicados).
func (e *Enemy) Kill(gd *GameData) {
	if _, ok := gd.Enemies[e.ID]; !ok {
		return
	}
	coefficient := 1.0 + ComboCoefficientStep*float64(gd.Combo)
	gd.Score += e.CalculateScore(coefficient)
	gd.EnemiesKilled++
	gd.eraseEnemy(e.ID)
}

// Remove retira el enemigo aplicando daño a la base. Solo se usa cuando el
// enemigo alcanzó la línea de defensa; una eliminación limpia pasa por Kill.
// Idempotente: retirar un id ausente es un no-op, nunca un error.
func (e *Enemy) Remove(gd *GameData, damage int) {
	if _, ok := gd.Enemies[e.ID]; !ok {
		return
	}
	gd.BaseHealth -= damage
	gd.eraseEnemy(e.ID)
}
