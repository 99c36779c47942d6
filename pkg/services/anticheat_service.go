package services

import (
	"fmt"
	"sort"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
)

// Verdict es el resultado de verificar la bitácora de una sesión. OK=false
// es una señal, no un rechazo duro: la política (marcar o bloquear) la
// decide la capa de persistencia.
type Verdict struct {
	OK      bool
	Reason  string
	Context ReplayContext
}

// ReplayContext reconstruye el ciclo de vida de los enemigos a partir de la
// bitácora, sin guardar cuadros completos: alcanza para responder qué veía
// el jugador en cualquier instante t.
type ReplayContext struct {
	SpawnTimes map[string]int64 // id → ms de aparición
	KillTimes  map[string]int64 // id → ms de eliminación por el jugador
	ReachTimes map[string]int64 // id → ms de llegada a la base
	Keypresses []int64          // ms de cada pulsación aceptada, en orden
}

// AliveAt devuelve los enemigos vivos en el instante t con su edad en ms.
func (c ReplayContext) AliveAt(t int64) map[string]int64 {
	alive := make(map[string]int64)
	for id, spawn := range c.SpawnTimes {
		if spawn > t {
			continue
		}
		if kill, ok := c.KillTimes[id]; ok && kill <= t {
			continue
		}
		if reach, ok := c.ReachTimes[id]; ok && reach <= t {
			continue
		}
		alive[id] = t - spawn
	}
	return alive
}

// AnticheatService re-simula la bitácora de acciones de una sesión
// terminada para juzgar si la cadencia observada es humanamente plausible.
// Verify es pura y determinista: la misma bitácora produce siempre el mismo
// veredicto, lo que permite pruebas repetibles y auditoría.
type AnticheatService struct {
	// ReactionFloorMs piso de reacción humana entre pulsaciones
	ReactionFloorMs int64
	// SuspectRunLength pulsaciones consecutivas bajo el piso para marcar
	SuspectRunLength int
	// UniformWindow tamaño de la ventana para detectar cadencia uniforme
	UniformWindow int
	// UniformSpreadMs dispersión máxima (max-min) considerada imposible
	UniformSpreadMs int64
}

// NewAnticheatService crea el verificador con los umbrales por defecto.
func NewAnticheatService() *AnticheatService {
	return &AnticheatService{
		ReactionFloorMs:  40,
		SuspectRunLength: 15,
		UniformWindow:    20,
		UniformSpreadMs:  2,
	}
}

// Verify reconstruye la sesión desde la bitácora y evalúa la cadencia de
// pulsaciones. No consulta relojes ni fuentes aleatorias.
func (s *AnticheatService) Verify(records []models.ActionRecord) Verdict {
	context := buildReplayContext(records)

	if reason, ok := s.checkCadence(context.Keypresses); !ok {
		return Verdict{OK: false, Reason: reason, Context: context}
	}
	return Verdict{OK: true, Context: context}
}

func buildReplayContext(records []models.ActionRecord) ReplayContext {
	context := ReplayContext{
		SpawnTimes: make(map[string]int64),
		KillTimes:  make(map[string]int64),
		ReachTimes: make(map[string]int64),
	}
	for _, record := range records {
		switch record.Action {
		case models.ActionRecordEnemySpawn:
			if id, ok := enemyID(record); ok {
				context.SpawnTimes[id] = record.Timestamp
			}
		case models.ActionRecordEnemyKill:
			if id, ok := enemyID(record); ok {
				context.KillTimes[id] = record.Timestamp
			}
		case models.ActionRecordEnemyReachedBase:
			if id, ok := enemyID(record); ok {
				context.ReachTimes[id] = record.Timestamp
			}
		case models.ActionRecordKeypress:
			context.Keypresses = append(context.Keypresses, record.Timestamp)
		}
	}
	return context
}

func enemyID(record models.ActionRecord) (string, bool) {
	raw, ok := record.Data["enemyId"]
	if !ok {
		return "", false
	}
	id, ok := raw.(string)
	return id, ok
}

// checkCadence examina los intervalos entre pulsaciones: una racha
// sostenida bajo el piso de reacción o una ventana con dispersión casi nula
// no son producibles por un humano.
func (s *AnticheatService) checkCadence(keypresses []int64) (string, bool) {
	if len(keypresses) < 2 {
		return "", true
	}

	intervals := make([]int64, 0, len(keypresses)-1)
	for i := 1; i < len(keypresses); i++ {
		intervals = append(intervals, keypresses[i]-keypresses[i-1])
	}

	run := 0
	for _, interval := range intervals {
		if interval < s.ReactionFloorMs {
			run++
			if run >= s.SuspectRunLength {
				return fmt.Sprintf(
					"cadencia imposiblemente rápida: %d pulsaciones seguidas bajo %d ms",
					run, s.ReactionFloorMs,
				), false
			}
		} else {
			run = 0
		}
	}

	if len(intervals) >= s.UniformWindow {
		for start := 0; start+s.UniformWindow <= len(intervals); start++ {
			window := intervals[start : start+s.UniformWindow]
			if spread(window) < s.UniformSpreadMs {
				return fmt.Sprintf(
					"cadencia implausiblemente uniforme: %d intervalos con dispersión menor a %d ms",
					s.UniformWindow, s.UniformSpreadMs,
				), false
			}
		}
	}

	return "", true
}

func spread(intervals []int64) int64 {
	min, max := intervals[0], intervals[0]
	for _, v := range intervals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

// SortedEnemyIDs expone los ids reconstruidos en orden estable, útil para
// auditar una sesión o alimentar un renderizador de replays.
func (c ReplayContext) SortedEnemyIDs() []string {
	ids := make([]string, 0, len(c.SpawnTimes))
	for id := range c.SpawnTimes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
