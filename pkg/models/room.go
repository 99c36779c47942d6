package models

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

const (
	// DefaultSpawnChance probabilidad de aparición por cada cruce del reloj
	DefaultSpawnChance = 0.08
	// EnemyValueRange los valores solicitados caen en [-EnemyValueRange, EnemyValueRange]
	EnemyValueRange = 99
)

// ProblemGenerator produce la expresión mostrada para un valor objetivo.
// Lo inyecta el registro de salas para no acoplar el modelo al servicio.
type ProblemGenerator func(target int) string

// Room agrupa uno o más jugadores en una misma simulación. Todas las
// mutaciones de sus GameData (tick, teclas, desconexiones) se serializan
// con Mu: nunca se intercala una tecla con un tick a medio aplicar.
type Room struct {
	Mu sync.Mutex

	Code         string
	Mode         GameMode
	MemberIDs    []string
	SpectatorIDs []string
	Names        map[string]string
	Playing      bool
	GameOver     bool
	GameData     []*GameData
	UpdateNumber int
	SpawnChance  float64

	GenerateProblem ProblemGenerator
	rng             *rand.Rand
}

// NewRoom crea una sala vacía en estado Idle.
func NewRoom(code string, mode GameMode, generate ProblemGenerator, seed int64) *Room {
	return &Room{
		Code:            code,
		Mode:            mode,
		Names:           make(map[string]string),
		SpawnChance:     DefaultSpawnChance,
		GenerateProblem: generate,
		rng:             rand.New(rand.NewSource(seed)),
	}
}

// AddMember agrega un jugador si todavía no está en la sala.
func (r *Room) AddMember(connectionID, name string) {
	for _, id := range r.MemberIDs {
		if id == connectionID {
			return
		}
	}
	r.MemberIDs = append(r.MemberIDs, connectionID)
	r.Names[connectionID] = name
}

// AddSpectator agrega un espectador si todavía no está en la sala.
func (r *Room) AddSpectator(connectionID, name string) {
	for _, id := range r.SpectatorIDs {
		if id == connectionID {
			return
		}
	}
	r.SpectatorIDs = append(r.SpectatorIDs, connectionID)
	r.Names[connectionID] = name
}

// RemoveConnection quita la conexión de miembros y espectadores. Si la
// partida está en curso su GameData queda eliminado para que el tick lo
// ignore; la sala vacía la recoge el barrido del scheduler, nunca este método.
func (r *Room) RemoveConnection(connectionID string) {
	r.MemberIDs = removeID(r.MemberIDs, connectionID)
	r.SpectatorIDs = removeID(r.SpectatorIDs, connectionID)
	delete(r.Names, connectionID)
	if gd, ok := r.FindGameData(connectionID); ok {
		gd.Eliminated = true
	}
}

// HasConnection informa si la conexión pertenece a la sala.
func (r *Room) HasConnection(connectionID string, includeSpectators bool) bool {
	for _, id := range r.MemberIDs {
		if id == connectionID {
			return true
		}
	}
	if !includeSpectators {
		return false
	}
	for _, id := range r.SpectatorIDs {
		if id == connectionID {
			return true
		}
	}
	return false
}

// IsEmpty indica si no quedan ni miembros ni espectadores.
func (r *Room) IsEmpty() bool {
	return len(r.MemberIDs) == 0 && len(r.SpectatorIDs) == 0
}

// FindGameData busca el estado de un jugador. La ausencia es un resultado
// normal (ok=false), nunca un error.
func (r *Room) FindGameData(connectionID string) (*GameData, bool) {
	for _, gd := range r.GameData {
		if gd.OwnerConnectionID == connectionID {
			return gd, true
		}
	}
	return nil, false
}

// Start pasa la sala de Idle a Playing materializando un GameData por
// miembro. Llamarlo con una partida en curso es ilegal y devuelve error.
func (r *Room) Start() error {
	if r.Playing {
		return fmt.Errorf("la sala %s ya tiene una partida en curso", r.Code)
	}
	if len(r.MemberIDs) == 0 {
		return fmt.Errorf("la sala %s no tiene jugadores", r.Code)
	}
	r.GameData = make([]*GameData, 0, len(r.MemberIDs))
	for _, id := range r.MemberIDs {
		r.GameData = append(r.GameData, NewGameData(id, r.Names[id], r.Mode))
	}
	r.Playing = true
	r.GameOver = false
	return nil
}

// Reset devuelve la sala a Idle conservando la membresía.
func (r *Room) Reset() {
	r.Playing = false
	r.GameOver = false
	r.GameData = nil
}

// Update avanza la simulación deltaMs milisegundos: relojes, movimiento de
// enemigos, llegadas a la base y apariciones nuevas. Los cruces del reloj de
// aparición restan el umbral en vez de reiniciar a cero, para conservar el
// resto sub-tick y que la cadencia no derive con ticks de duración variable.
func (r *Room) Update(deltaMs float64) {
	if !r.Playing {
		return
	}

	for _, gd := range r.GameData {
		if gd.Eliminated {
			continue
		}

		gd.ElapsedTime += deltaMs
		for _, clock := range gd.Clocks {
			clock.CurrentTime += deltaMs
		}

		// Mover todos los enemigos y retirar los que alcanzaron la base.
		for _, id := range sortedEnemyIDs(gd.Enemies) {
			enemy := gd.Enemies[id]
			enemy.Move(enemy.Speed * deltaMs)
			if enemy.SPosition <= 0 {
				enemy.Remove(gd, EnemyBaseDamage)
				gd.AppendAction(ActionRecordEnemyReachedBase, map[string]interface{}{
					"enemyId": enemy.ID,
				})
			}
		}

		// Apariciones: un intento por cada cruce completo del umbral.
		spawn := gd.Clocks[ClockEnemySpawn]
		for spawn.CurrentTime >= spawn.ActionTime {
			spawn.CurrentTime -= spawn.ActionTime
			if r.rng.Float64() < r.SpawnChance {
				r.spawnEnemy(gd)
			}
		}

		// Expiración del combo por inactividad.
		combo := gd.Clocks[ClockComboReset]
		if combo.CurrentTime >= combo.ActionTime {
			combo.CurrentTime = 0
			gd.Combo = 0
		}

		if gd.BaseHealth <= 0 {
			gd.Eliminated = true
			gd.AppendAction(ActionRecordGameOver, map[string]interface{}{
				"score":       gd.Score,
				"elapsedTime": gd.ElapsedTime,
			})
		}
	}

	// La partida termina cuando no queda ningún jugador activo.
	if r.allEliminated() {
		r.Playing = false
		r.GameOver = true
	}

	r.UpdateNumber++
}

func (r *Room) spawnEnemy(gd *GameData) {
	value := r.rng.Intn(2*EnemyValueRange+1) - EnemyValueRange
	displayed := r.GenerateProblem(value)
	id := gd.NextEnemyID(r.UpdateNumber)
	enemy := NewEnemy(id, value, displayed, r.rng.Float64())
	gd.Enemies[id] = enemy
	gd.AppendAction(ActionRecordEnemySpawn, map[string]interface{}{
		"enemyId":        id,
		"requestedValue": value,
	})
}

func (r *Room) allEliminated() bool {
	for _, gd := range r.GameData {
		if !gd.Eliminated {
			return false
		}
	}
	return true
}

// BuildSnapshots serializa el estado visible de cada jugador y vacía las
// listas transitorias de borrado. El RequestedValue de los enemigos se
// descarta siempre antes de transmitir: filtrar la respuesta es un
// requisito de seguridad, no una optimización.
func (r *Room) BuildSnapshots() []GameDataSnapshot {
	snapshots := make([]GameDataSnapshot, 0, len(r.GameData))
	for _, gd := range r.GameData {
		snapshot := GameDataSnapshot{
			Owner:          gd.OwnerConnectionID,
			OwnerName:      gd.OwnerName,
			Score:          gd.Score,
			BaseHealth:     gd.BaseHealth,
			Combo:          gd.Combo,
			CurrentInput:   gd.CurrentInput,
			ElapsedTime:    gd.ElapsedTime,
			Eliminated:     gd.Eliminated,
			UpdateNumber:   r.UpdateNumber,
			Enemies:        make([]EnemySnapshot, 0, len(gd.Enemies)),
			EnemiesToErase: gd.EnemiesToErase,
		}
		for _, id := range sortedEnemyIDs(gd.Enemies) {
			enemy := gd.Enemies[id]
			snapshot.Enemies = append(snapshot.Enemies, EnemySnapshot{
				ID:            enemy.ID,
				DisplayedText: enemy.DisplayedText,
				SPosition:     enemy.SPosition,
				Speed:         enemy.Speed,
				XPosition:     enemy.XPosition,
			})
		}
		gd.EnemiesToErase = nil
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

func sortedEnemyIDs(enemies map[string]*Enemy) []string {
	ids := make([]string, 0, len(enemies))
	for id := range enemies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
