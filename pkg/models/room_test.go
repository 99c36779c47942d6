package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
)

func newTestRoom() *Room {
	room := NewRoom("TEST01", ModeSingleplayer, func(target int) string {
		return strconv.Itoa(target)
	}, 42)
	room.AddMember("conn1", "Tester")
	return room
}

func startedTestRoom(t *testing.T) (*Room, *GameData) {
	t.Helper()
	room := newTestRoom()
	if err := room.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	gd, ok := room.FindGameData("conn1")
	if !ok {
		t.Fatalf("FindGameData(conn1) no encontró el estado del jugador")
	}
	return room, gd
}

func TestStartMaterializesGameData(t *testing.T) {
	room := newTestRoom()
	room.AddMember("conn2", "Rival")
	if err := room.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !room.Playing {
		t.Fatalf("Playing = false, want true")
	}
	if len(room.GameData) != len(room.MemberIDs) {
		t.Fatalf("len(GameData) = %d, want %d", len(room.GameData), len(room.MemberIDs))
	}
}

func TestStartTwiceFails(t *testing.T) {
	room, _ := startedTestRoom(t)
	if err := room.Start(); err == nil {
		t.Fatalf("segundo Start() sin reset no devolvió error")
	}
	room.Reset()
	if err := room.Start(); err != nil {
		t.Fatalf("Start() tras Reset() error: %v", err)
	}
}

func TestUpdateIdleIsNoOp(t *testing.T) {
	room := newTestRoom()
	room.Update(100)
	if room.UpdateNumber != 0 {
		t.Fatalf("UpdateNumber = %d, want 0 (la sala no está jugando)", room.UpdateNumber)
	}
}

func TestSpawnClockPreservesRemainder(t *testing.T) {
	room, gd := startedTestRoom(t)
	room.SpawnChance = 1.0
	gd.Clocks[ClockEnemySpawn].ActionTime = 100

	room.Update(150)

	if len(gd.Enemies) != 1 {
		t.Fatalf("len(Enemies) = %d, want 1", len(gd.Enemies))
	}
	if got := gd.Clocks[ClockEnemySpawn].CurrentTime; got != 50 {
		t.Fatalf("reloj de aparición = %v, want 50 (resto preservado, no reiniciado)", got)
	}
	if gd.ElapsedTime != 150 {
		t.Fatalf("ElapsedTime = %v, want 150", gd.ElapsedTime)
	}
	if room.UpdateNumber != 1 {
		t.Fatalf("UpdateNumber = %d, want 1", room.UpdateNumber)
	}
}

func TestSpawnClockMultipleCrossings(t *testing.T) {
	room, gd := startedTestRoom(t)
	room.SpawnChance = 1.0
	gd.Clocks[ClockEnemySpawn].ActionTime = 100

	room.Update(350)

	if len(gd.Enemies) != 3 {
		t.Fatalf("len(Enemies) = %d, want 3 (un intento por cada cruce)", len(gd.Enemies))
	}
	if got := gd.Clocks[ClockEnemySpawn].CurrentTime; got != 50 {
		t.Fatalf("reloj de aparición = %v, want 50", got)
	}
}

func TestSpawnedProblemEvaluatesToRequestedValue(t *testing.T) {
	room, gd := startedTestRoom(t)
	room.SpawnChance = 1.0
	gd.Clocks[ClockEnemySpawn].ActionTime = 100
	room.Update(500)

	for id, enemy := range gd.Enemies {
		want := strconv.Itoa(enemy.RequestedValue)
		if enemy.DisplayedText != want {
			t.Fatalf("enemigo %s: DisplayedText = %q, want %q", id, enemy.DisplayedText, want)
		}
	}
}

func TestEnemyReachingBaseDeductsHealthOnce(t *testing.T) {
	room, gd := startedTestRoom(t)
	room.SpawnChance = 0 // sin apariciones nuevas durante la prueba

	enemy := NewEnemy("e1", 7, "7", 0.5)
	enemy.SPosition = 0.0005
	gd.Enemies[enemy.ID] = enemy

	room.Update(10) // mueve 0.001: cruza la base
	if gd.BaseHealth != StartingBaseHealth-EnemyBaseDamage {
		t.Fatalf("BaseHealth = %d, want %d", gd.BaseHealth, StartingBaseHealth-EnemyBaseDamage)
	}
	if _, ok := gd.Enemies["e1"]; ok {
		t.Fatalf("el enemigo sigue vivo tras alcanzar la base")
	}

	room.Update(10) // ticks posteriores no vuelven a descontar
	if gd.BaseHealth != StartingBaseHealth-EnemyBaseDamage {
		t.Fatalf("BaseHealth tras segundo tick = %d, want %d", gd.BaseHealth, StartingBaseHealth-EnemyBaseDamage)
	}
}

func TestGameOverWhenHealthDepleted(t *testing.T) {
	room, gd := startedTestRoom(t)
	room.SpawnChance = 0
	gd.BaseHealth = EnemyBaseDamage

	enemy := NewEnemy("e1", 7, "7", 0.5)
	enemy.SPosition = 0.0005
	gd.Enemies[enemy.ID] = enemy

	room.Update(10)

	if !gd.Eliminated {
		t.Fatalf("Eliminated = false, want true")
	}
	if room.Playing {
		t.Fatalf("Playing = true, want false tras el fin de la partida")
	}
	if !room.GameOver {
		t.Fatalf("GameOver = false, want true")
	}
}

func TestComboExpiresWithoutKills(t *testing.T) {
	room, gd := startedTestRoom(t)
	room.SpawnChance = 0
	gd.Combo = 4

	room.Update(DefaultComboResetTime + 1)

	if gd.Combo != 0 {
		t.Fatalf("Combo = %d, want 0 tras expirar el reloj", gd.Combo)
	}
}

func TestBuildSnapshotsDrainsEraseList(t *testing.T) {
	room, gd := startedTestRoom(t)
	room.SpawnChance = 0

	enemy := NewEnemy("e1", 7, "7", 0.5)
	enemy.SPosition = 0.0005
	gd.Enemies[enemy.ID] = enemy
	room.Update(10)

	snapshots := room.BuildSnapshots()
	if len(snapshots) != 1 {
		t.Fatalf("len(snapshots) = %d, want 1", len(snapshots))
	}
	if len(snapshots[0].EnemiesToErase) != 1 || snapshots[0].EnemiesToErase[0] != "e1" {
		t.Fatalf("EnemiesToErase del snapshot = %v, want [e1]", snapshots[0].EnemiesToErase)
	}

	// La lista transitoria vive un solo envío.
	if len(gd.EnemiesToErase) != 0 {
		t.Fatalf("EnemiesToErase del GameData = %v, want vacía tras el snapshot", gd.EnemiesToErase)
	}
}

func TestSnapshotsNeverSerializeRequestedValue(t *testing.T) {
	room, gd := startedTestRoom(t)
	room.SpawnChance = 1.0
	gd.Clocks[ClockEnemySpawn].ActionTime = 100
	room.Update(500)
	if len(gd.Enemies) == 0 {
		t.Fatalf("la sala no generó enemigos para la prueba")
	}

	payload, err := json.Marshal(room.BuildSnapshots())
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	// El texto mostrado viaja; la respuesta solicitada jamás sale del
	// servidor, ni siquiera si alguien agrega campos al snapshot.
	if !strings.Contains(string(payload), "displayedText") {
		t.Fatalf("el snapshot no incluye displayedText: %s", payload)
	}
	if strings.Contains(string(payload), "requestedValue") {
		t.Fatalf("el snapshot filtra requestedValue al cliente: %s", payload)
	}
}

func TestRemoveConnectionEliminatesMidGame(t *testing.T) {
	room, gd := startedTestRoom(t)
	room.RemoveConnection("conn1")

	if !gd.Eliminated {
		t.Fatalf("Eliminated = false tras desconectar al dueño")
	}
	if !room.IsEmpty() {
		t.Fatalf("IsEmpty() = false, want true")
	}
	if room.HasConnection("conn1", true) {
		t.Fatalf("HasConnection(conn1) = true tras RemoveConnection")
	}
}
