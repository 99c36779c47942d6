package websocket

import (
	"math/rand"
	"strings"
	"testing"
)

func newTestHub() *Hub {
	return NewHub(rand.New(rand.NewSource(1)))
}

func TestGenerateConnectionID(t *testing.T) {
	h := newTestHub()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := h.generateConnectionID()
		if len(id) != connectionIDLength {
			t.Fatalf("len(id) = %d, want %d", len(id), connectionIDLength)
		}
		for _, c := range id {
			if !strings.ContainsRune(connectionIDChars, c) {
				t.Fatalf("id %q contiene el carácter inválido %q", id, c)
			}
		}
		seen[id] = true
	}
	// Con 16 caracteres las colisiones deberían ser inexistentes en la práctica.
	if len(seen) < 1000 {
		t.Fatalf("ids únicos = %d de 1000", len(seen))
	}
}

func TestGenerateConnectionIDIsDeterministicPerSeed(t *testing.T) {
	a := NewHub(rand.New(rand.NewSource(9)))
	b := NewHub(rand.New(rand.NewSource(9)))
	for i := 0; i < 50; i++ {
		if got, want := a.generateConnectionID(), b.generateConnectionID(); got != want {
			t.Fatalf("con la misma semilla: %q != %q", got, want)
		}
	}
}

func TestSendToUnknownConnectionIsNoOp(t *testing.T) {
	h := newTestHub()
	// Un id desconocido es un caso normal: no debe entrar en pánico.
	h.Send("fantasma", "gameState", map[string]int{"x": 1})
	if h.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", h.Count())
	}
}

func TestUnregisterUnknownIsNoOp(t *testing.T) {
	h := newTestHub()
	h.Unregister("fantasma")
	if h.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", h.Count())
	}
}
