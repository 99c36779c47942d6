package services

import (
	"testing"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
)

func newTestGameData() *models.GameData {
	return models.NewGameData("conn1", "Tester", models.ModeSingleplayer)
}

func TestClassify(t *testing.T) {
	s := NewInputService()
	tests := []struct {
		code string
		want Action
	}{
		{"Digit0", ActionAddDigit},
		{"Digit9", ActionAddDigit},
		{"Numpad0", ActionAddDigit},
		{"Numpad7", ActionAddDigit},
		{"Backspace", ActionRemoveDigit},
		{"Minus", ActionAddSubtractionSign},
		{"NumpadSubtract", ActionAddSubtractionSign},
		{"Enter", ActionSubmit},
		{"NumpadEnter", ActionSubmit},
		{"Space", ActionSubmit},
		{"Escape", ActionAbort},
		{"KeyA", ActionUnknown},
		{"NumpadAdd", ActionUnknown},
		{"DigitX", ActionUnknown},
		{"", ActionUnknown},
	}
	for _, tt := range tests {
		if got := s.Classify(tt.code); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestAddDigitRespectsCap(t *testing.T) {
	s := NewInputService()
	gd := newTestGameData()
	for i := 0; i < 9; i++ {
		s.Apply(ActionAddDigit, "Digit1", gd)
	}
	if len(gd.CurrentInput) != models.MaxInputLength {
		t.Fatalf("len(CurrentInput) = %d, want %d", len(gd.CurrentInput), models.MaxInputLength)
	}
}

func TestRemoveDigit(t *testing.T) {
	s := NewInputService()
	gd := newTestGameData()

	// Sobre un buffer vacío es un no-op, no un error.
	if s.Apply(ActionRemoveDigit, "Backspace", gd) {
		t.Fatalf("RemoveDigit sobre buffer vacío fue aceptada")
	}

	s.Apply(ActionAddDigit, "Digit4", gd)
	s.Apply(ActionAddDigit, "Digit2", gd)
	s.Apply(ActionRemoveDigit, "Backspace", gd)
	if gd.CurrentInput != "4" {
		t.Fatalf("CurrentInput = %q, want %q", gd.CurrentInput, "4")
	}
}

func TestSubtractionSignLeadingOnly(t *testing.T) {
	s := NewInputService()
	gd := newTestGameData()

	if !s.Apply(ActionAddSubtractionSign, "Minus", gd) {
		t.Fatalf("el signo inicial fue rechazado")
	}
	if gd.CurrentInput != "-" {
		t.Fatalf("CurrentInput = %q, want %q", gd.CurrentInput, "-")
	}

	// Un segundo signo, o un signo a mitad del número, es un no-op.
	if s.Apply(ActionAddSubtractionSign, "Minus", gd) {
		t.Fatalf("un segundo signo fue aceptado")
	}
	s.Apply(ActionAddDigit, "Digit5", gd)
	if s.Apply(ActionAddSubtractionSign, "Minus", gd) {
		t.Fatalf("un signo intercalado fue aceptado")
	}
	if gd.CurrentInput != "-5" {
		t.Fatalf("CurrentInput = %q, want %q", gd.CurrentInput, "-5")
	}
}

func TestSubmitCorrectKillsExactlyOne(t *testing.T) {
	s := NewInputService()
	gd := newTestGameData()
	gd.Enemies["e1"] = models.NewEnemy("e1", 7, "7", 0.1)
	gd.Enemies["e2"] = models.NewEnemy("e2", 7, "14 ÷ 2", 0.9)
	gd.Enemies["e3"] = models.NewEnemy("e3", -3, "-3", 0.5)

	s.Apply(ActionAddDigit, "Digit7", gd)
	s.Apply(ActionSubmit, "Enter", gd)

	if gd.Score <= 0 {
		t.Fatalf("Score = %d, want > 0", gd.Score)
	}
	if len(gd.Enemies) != 2 {
		t.Fatalf("len(Enemies) = %d, want 2 (muere exactamente uno)", len(gd.Enemies))
	}
	if gd.Combo != 1 {
		t.Fatalf("Combo = %d, want 1", gd.Combo)
	}
	if gd.CurrentInput != "" {
		t.Fatalf("CurrentInput = %q, want vacío tras submit", gd.CurrentInput)
	}
}

func TestSubmitNegativeAnswer(t *testing.T) {
	s := NewInputService()
	gd := newTestGameData()
	gd.Enemies["e1"] = models.NewEnemy("e1", -3, "-3", 0.5)

	s.Apply(ActionAddSubtractionSign, "Minus", gd)
	s.Apply(ActionAddDigit, "Digit3", gd)
	s.Apply(ActionSubmit, "Enter", gd)

	if len(gd.Enemies) != 0 {
		t.Fatalf("len(Enemies) = %d, want 0", len(gd.Enemies))
	}
	if gd.Combo != 1 {
		t.Fatalf("Combo = %d, want 1", gd.Combo)
	}
}

func TestSubmitMissResetsCombo(t *testing.T) {
	s := NewInputService()
	gd := newTestGameData()
	gd.Combo = 5
	gd.Enemies["e1"] = models.NewEnemy("e1", 7, "7", 0.1)

	s.Apply(ActionAddDigit, "Digit9", gd)
	s.Apply(ActionSubmit, "Enter", gd)

	if gd.Score != 0 {
		t.Fatalf("Score = %d, want 0 (sin coincidencia)", gd.Score)
	}
	if len(gd.Enemies) != 1 {
		t.Fatalf("len(Enemies) = %d, want 1", len(gd.Enemies))
	}
	if gd.Combo != 0 {
		t.Fatalf("Combo = %d, want 0", gd.Combo)
	}
	if gd.CurrentInput != "" {
		t.Fatalf("CurrentInput = %q, want vacío tras submit", gd.CurrentInput)
	}
}

func TestSubmitNonNumericBufferIsMiss(t *testing.T) {
	s := NewInputService()
	gd := newTestGameData()
	gd.Combo = 2
	s.Apply(ActionAddSubtractionSign, "Minus", gd)
	s.Apply(ActionSubmit, "Enter", gd)

	if gd.Combo != 0 {
		t.Fatalf("Combo = %d, want 0", gd.Combo)
	}
	if gd.CurrentInput != "" {
		t.Fatalf("CurrentInput = %q, want vacío", gd.CurrentInput)
	}
}

func TestApplyIgnoredWhenEliminated(t *testing.T) {
	s := NewInputService()
	gd := newTestGameData()
	gd.Eliminated = true

	if s.Apply(ActionAddDigit, "Digit1", gd) {
		t.Fatalf("una tecla fue aceptada con el jugador eliminado")
	}
	if gd.CurrentInput != "" {
		t.Fatalf("CurrentInput = %q, want vacío", gd.CurrentInput)
	}
}

func TestAcceptedKeypressesAreLogged(t *testing.T) {
	s := NewInputService()
	gd := newTestGameData()
	before := len(gd.ActionLog)

	s.Apply(ActionAddDigit, "Digit1", gd)
	s.Apply(ActionRemoveDigit, "Backspace", gd)
	s.Apply(ActionRemoveDigit, "Backspace", gd) // rechazada: buffer vacío

	logged := 0
	for _, record := range gd.ActionLog[before:] {
		if record.Action == models.ActionRecordKeypress {
			logged++
		}
	}
	if logged != 2 {
		t.Fatalf("pulsaciones registradas = %d, want 2 (solo las aceptadas)", logged)
	}
}
