package models

import "testing"

func newTestGameData() *GameData {
	return NewGameData("conn1", "Tester", ModeSingleplayer)
}

func TestEnemyMove(t *testing.T) {
	e := NewEnemy("e1", 7, "7", 0.5)
	if e.SPosition != 1.0 {
		t.Fatalf("SPosition inicial = %v, want 1.0", e.SPosition)
	}
	e.Move(0.25)
	if e.SPosition != 0.75 {
		t.Fatalf("SPosition tras Move(0.25) = %v, want 0.75", e.SPosition)
	}
}

func TestEnemyCheck(t *testing.T) {
	e := NewEnemy("e1", -12, "-12", 0.5)
	if !e.Check(-12) {
		t.Fatalf("Check(-12) = false, want true")
	}
	if e.Check(12) {
		t.Fatalf("Check(12) = true, want false")
	}
}

func TestEnemyCalculateScore(t *testing.T) {
	tests := []struct {
		name        string
		sPosition   float64
		coefficient float64
		want        int
	}{
		{"borde de aparición", 1.0, 1.0, 125},
		{"mitad del campo", 0.5, 1.0, 100},
		{"cerca de la base, sin bono negativo", 0.2, 1.0, 100},
		{"con combo", 1.0, 1.5, 188},
	}
	for _, tt := range tests {
		e := NewEnemy("e1", 3, "3", 0)
		e.SPosition = tt.sPosition
		if got := e.CalculateScore(tt.coefficient); got != tt.want {
			t.Errorf("%s: CalculateScore(%v) = %d, want %d", tt.name, tt.coefficient, got, tt.want)
		}
	}
}

func TestEnemyKill(t *testing.T) {
	gd := newTestGameData()
	e := NewEnemy("e1", 7, "7", 0.5)
	gd.Enemies[e.ID] = e

	e.Kill(gd)
	if gd.Score != 125 {
		t.Fatalf("Score = %d, want 125", gd.Score)
	}
	if gd.BaseHealth != StartingBaseHealth {
		t.Fatalf("BaseHealth = %d, want %d (un kill limpio no daña la base)", gd.BaseHealth, StartingBaseHealth)
	}
	if _, ok := gd.Enemies[e.ID]; ok {
		t.Fatalf("el enemigo sigue vivo después de Kill")
	}
	if len(gd.EnemiesToErase) != 1 || gd.EnemiesToErase[0] != "e1" {
		t.Fatalf("EnemiesToErase = %v, want [e1]", gd.EnemiesToErase)
	}

	// Un segundo Kill sobre un id ausente es un no-op.
	e.Kill(gd)
	if gd.Score != 125 {
		t.Fatalf("Score tras doble Kill = %d, want 125", gd.Score)
	}
	if len(gd.EnemiesToErase) != 1 {
		t.Fatalf("EnemiesToErase tras doble Kill = %v, want un solo id", gd.EnemiesToErase)
	}
}

func TestEnemyRemoveAppliesDamageOnce(t *testing.T) {
	gd := newTestGameData()
	e := NewEnemy("e1", 7, "7", 0.5)
	gd.Enemies[e.ID] = e

	e.Remove(gd, EnemyBaseDamage)
	if gd.BaseHealth != StartingBaseHealth-EnemyBaseDamage {
		t.Fatalf("BaseHealth = %d, want %d", gd.BaseHealth, StartingBaseHealth-EnemyBaseDamage)
	}

	// Retirar de nuevo no descuenta salud por segunda vez.
	e.Remove(gd, EnemyBaseDamage)
	if gd.BaseHealth != StartingBaseHealth-EnemyBaseDamage {
		t.Fatalf("BaseHealth tras doble Remove = %d, want %d", gd.BaseHealth, StartingBaseHealth-EnemyBaseDamage)
	}
	if gd.Score != 0 {
		t.Fatalf("Score = %d, want 0 (Remove no otorga puntos)", gd.Score)
	}
}
