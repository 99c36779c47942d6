package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
)

// Action es el significado de una tecla cruda una vez clasificada.
type Action int

const (
	ActionUnknown Action = iota
	ActionAddDigit
	ActionRemoveDigit
	ActionAddSubtractionSign
	ActionSubmit
	ActionAbort
)

// InputService convierte códigos de tecla del cliente en efectos sobre el
// GameData de su dueño. Las acciones de una misma conexión se aplican
// estrictamente en orden de llegada: el llamador sostiene el mutex de la
// sala mientras aplica, igual que el tick.
type InputService struct{}

// NewInputService crea el clasificador de entradas.
func NewInputService() *InputService {
	return &InputService{}
}

// Classify traduce un código de tecla (formato KeyboardEvent.code) a una
// acción semántica. Cualquier tecla fuera del conjunto es Unknown y el
// llamador la descarta sin cerrar la conexión.
func (s *InputService) Classify(code string) Action {
	switch code {
	case "Backspace":
		return ActionRemoveDigit
	case "Minus", "NumpadSubtract":
		return ActionAddSubtractionSign
	case "Enter", "NumpadEnter", "Space":
		return ActionSubmit
	case "Escape":
		return ActionAbort
	}
	if strings.HasPrefix(code, "Digit") && len(code) == 6 {
		if code[5] >= '0' && code[5] <= '9' {
			return ActionAddDigit
		}
	}
	if strings.HasPrefix(code, "Numpad") && len(code) == 7 {
		if code[6] >= '0' && code[6] <= '9' {
			return ActionAddDigit
		}
	}
	return ActionUnknown
}

// Apply ejecuta la acción sobre el GameData y devuelve si fue aceptada.
// Toda pulsación aceptada queda anotada en la bitácora de la partida.
func (s *InputService) Apply(action Action, code string, gd *models.GameData) bool {
	if gd.Eliminated {
		return false
	}

	accepted := false
	switch action {
	case ActionAddDigit:
		if len(gd.CurrentInput) < models.MaxInputLength {
			gd.CurrentInput += digitFromCode(code)
			accepted = true
		}
	case ActionRemoveDigit:
		if len(gd.CurrentInput) > 0 {
			gd.CurrentInput = gd.CurrentInput[:len(gd.CurrentInput)-1]
			accepted = true
		}
	case ActionAddSubtractionSign:
		// El signo solo se acepta como primer carácter del buffer; un
		// segundo signo o un signo intercalado es un no-op.
		if gd.CurrentInput == "" {
			gd.CurrentInput = "-"
			accepted = true
		}
	case ActionSubmit:
		s.submit(gd)
		accepted = true
	case ActionAbort:
		// Abandonar la sala lo resuelve la capa de sesión, no el GameData.
		accepted = true
	}

	if accepted {
		gd.AppendAction(models.ActionRecordKeypress, map[string]interface{}{
			"code": code,
		})
	}
	return accepted
}

// submit interpreta el buffer como entero y busca un enemigo cuyo valor
// solicitado coincida. Acierto: un solo enemigo muere y el combo sube.
// Fallo (sin coincidencia o buffer no numérico): el combo vuelve a cero.
// El buffer se limpia en ambos casos.
func (s *InputService) submit(gd *models.GameData) {
	input := gd.CurrentInput
	gd.CurrentInput = ""

	value, err := strconv.Atoi(input)
	if err != nil {
		gd.Combo = 0
		return
	}

	for _, id := range sortedIDs(gd.Enemies) {
		enemy := gd.Enemies[id]
		if !enemy.Check(value) {
			continue
		}
		enemy.Kill(gd)
		gd.Combo++
		gd.Clocks[models.ClockComboReset].CurrentTime = 0
		gd.AppendAction(models.ActionRecordEnemyKill, map[string]interface{}{
			"enemyId": enemy.ID,
		})
		return
	}

	gd.Combo = 0
}

func digitFromCode(code string) string {
	return code[len(code)-1:]
}

func sortedIDs(enemies map[string]*models.Enemy) []string {
	ids := make([]string, 0, len(enemies))
	for id := range enemies {
		ids = append(ids, id)
	}
	// orden estable para que el mismo submit mate siempre al mismo enemigo
	sort.Strings(ids)
	return ids
}
