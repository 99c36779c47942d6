package services

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
)

func TestGenerateRoundTrip(t *testing.T) {
	s := NewProblemService(rand.New(rand.NewSource(1)))
	for target := -120; target <= 120; target++ {
		for i := 0; i < 20; i++ {
			displayed := s.Generate(target)
			got, err := Evaluate(displayed)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v (target %d)", displayed, err, target)
			}
			if got != target {
				t.Fatalf("Evaluate(%q) = %d, want %d", displayed, got, target)
			}
		}
	}
}

func TestGenerateZeroNeverDividesByZero(t *testing.T) {
	s := NewProblemService(rand.New(rand.NewSource(7)))
	for i := 0; i < 500; i++ {
		displayed := s.Generate(0)
		if strings.Contains(displayed, opDiv) {
			fields := strings.Fields(displayed)
			if fields[2] == "0" {
				t.Fatalf("Generate(0) produjo división entre cero: %q", displayed)
			}
		}
		got, err := Evaluate(displayed)
		if err != nil || got != 0 {
			t.Fatalf("Evaluate(%q) = %d, %v, want 0, nil", displayed, got, err)
		}
	}
}

func TestGenerateIdentityIsCommon(t *testing.T) {
	s := NewProblemService(rand.New(rand.NewSource(3)))
	identity := 0
	const total = 7000
	for i := 0; i < total; i++ {
		displayed := s.Generate(17)
		if _, err := strconv.Atoi(displayed); err == nil {
			identity++
		}
	}
	// la identidad pesa 3 de 7; con margen amplio debe superar el 30%
	if identity < total*3/10 {
		t.Fatalf("formas identidad = %d de %d, se esperaba al menos el 30%%", identity, total)
	}
}

func TestGenerateOperandsAreIntegers(t *testing.T) {
	s := NewProblemService(rand.New(rand.NewSource(11)))
	for i := 0; i < 2000; i++ {
		displayed := s.Generate(i%199 - 99)
		for _, field := range strings.Fields(displayed) {
			if field == opAdd || field == opSub || field == opMul || field == opDiv {
				continue
			}
			if _, err := strconv.Atoi(field); err != nil {
				t.Fatalf("operando no entero %q en %q", field, displayed)
			}
		}
	}
}

func TestEvaluateRejectsMalformed(t *testing.T) {
	tests := []struct {
		name      string
		displayed string
	}{
		{"vacía", ""},
		{"incompleta", "1 +"},
		{"operando no numérico", "a + 2"},
		{"operador desconocido", "1 ^ 2"},
		{"división entre cero", "5 ÷ 0"},
		{"división no entera", "7 ÷ 2"},
	}
	for _, tt := range tests {
		if _, err := Evaluate(tt.displayed); err == nil {
			t.Errorf("%s: Evaluate(%q) no devolvió error", tt.name, tt.displayed)
		}
	}
}
