package services

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
)

// Alfabeto de los códigos de sala, sin caracteres ambiguos.
const roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomCodeLength = 6

// RoomService es el registro de salas vivas: crea códigos sin colisiones,
// resuelve membresías y ejecuta el barrido de salas vacías. Es un objeto
// inyectado; no hay listas globales sueltas.
type RoomService struct {
	mu             sync.RWMutex
	rooms          map[string]*models.Room
	problemService *ProblemService
	rng            *rand.Rand
}

// NewRoomService crea el registro de salas.
func NewRoomService(problemService *ProblemService) *RoomService {
	return &RoomService{
		rooms:          make(map[string]*models.Room),
		problemService: problemService,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateRoom crea una sala nueva con un código único entre las salas vivas.
func (s *RoomService) CreateRoom(mode models.GameMode) *models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createRoomLocked(mode)
}

func (s *RoomService) createRoomLocked(mode models.GameMode) *models.Room {
	var code string
	for {
		code = s.generateRoomCode()
		if _, exists := s.rooms[code]; !exists {
			break
		}
	}
	room := models.NewRoom(code, mode, s.problemService.Generate, s.rng.Int63())
	s.rooms[code] = room
	log.Printf("🏠 Nueva sala creada (código: %s, modo: %s)", code, mode)
	return room
}

// JoinRoom agrega la conexión a la sala indicada, sacándola antes de la
// sala en la que estuviera: una conexión pertenece a lo sumo a una sala.
// Si la partida ya está en curso la conexión entra como espectador.
func (s *RoomService) JoinRoom(code, connectionID, name string) (*models.Room, bool, error) {
	s.mu.RLock()
	room, ok := s.rooms[code]
	s.mu.RUnlock()
	if !ok {
		return nil, false, fmt.Errorf("la sala %s no existe", code)
	}

	s.leaveCurrentRoom(connectionID, code)

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.Playing {
		room.AddSpectator(connectionID, name)
		return room, true, nil
	}
	room.AddMember(connectionID, name)
	return room, false, nil
}

// JoinDefault une la conexión a la primera sala multijugador que todavía no
// comenzó, o crea una nueva si no hay ninguna esperando. La membresía
// anterior de la conexión se libera primero.
func (s *RoomService) JoinDefault(connectionID, name string) *models.Room {
	s.leaveCurrentRoom(connectionID, "")

	s.mu.Lock()
	var waiting *models.Room
	for _, room := range s.rooms {
		room.Mu.Lock()
		if room.Mode == models.ModeMultiplayer && !room.Playing {
			waiting = room
		}
		room.Mu.Unlock()
		if waiting != nil {
			break
		}
	}
	if waiting == nil {
		waiting = s.createRoomLocked(models.ModeMultiplayer)
	}
	s.mu.Unlock()

	waiting.Mu.Lock()
	waiting.AddMember(connectionID, name)
	waiting.Mu.Unlock()
	return waiting
}

// StartSingleplayer crea una sala individual para la conexión y arranca la
// partida de inmediato. La sala anterior de la conexión (la de una partida
// recién terminada, por ejemplo) se abandona primero; el barrido del
// scheduler la recoge cuando queda vacía.
func (s *RoomService) StartSingleplayer(connectionID, name string) (*models.Room, error) {
	s.leaveCurrentRoom(connectionID, "")
	room := s.CreateRoom(models.ModeSingleplayer)
	room.Mu.Lock()
	defer room.Mu.Unlock()
	room.AddMember(connectionID, name)
	if err := room.Start(); err != nil {
		return nil, err
	}
	return room, nil
}

// FindRoom busca la sala a la que pertenece la conexión. La ausencia es un
// resultado normal, no un error: las carreras de desconexión son esperables.
func (s *RoomService) FindRoom(connectionID string, includeSpectators bool) (*models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, room := range s.rooms {
		room.Mu.Lock()
		found := room.HasConnection(connectionID, includeSpectators)
		room.Mu.Unlock()
		if found {
			return room, true
		}
	}
	return nil, false
}

// FindGameData busca el estado de juego de la conexión dentro de su sala.
func (s *RoomService) FindGameData(connectionID string, room *models.Room) (*models.GameData, bool) {
	if room == nil {
		return nil, false
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()
	return room.FindGameData(connectionID)
}

// LeaveRoom quita la conexión de la sala en la que esté. La sala vacía la
// recoge el próximo barrido del scheduler.
func (s *RoomService) LeaveRoom(connectionID string) (string, bool) {
	room, ok := s.FindRoom(connectionID, true)
	if !ok {
		return "", false
	}
	room.Mu.Lock()
	room.RemoveConnection(connectionID)
	room.Mu.Unlock()
	return room.Code, true
}

// leaveCurrentRoom saca la conexión de la sala en la que esté, salvo que sea
// la sala exceptuada. Toda ruta de entrada a una sala pasa por acá primero:
// el modelo no admite una conexión con dos membresías vivas.
func (s *RoomService) leaveCurrentRoom(connectionID, except string) {
	room, ok := s.FindRoom(connectionID, true)
	if !ok || room.Code == except {
		return
	}
	room.Mu.Lock()
	room.RemoveConnection(connectionID)
	room.Mu.Unlock()
}

// HandleDisconnect limpia la membresía de una conexión que se cerró.
func (s *RoomService) HandleDisconnect(connectionID string) {
	if code, ok := s.LeaveRoom(connectionID); ok {
		log.Printf("👋 Conexión %s salió de la sala %s", connectionID, code)
	}
}

// Rooms devuelve una copia del conjunto de salas vivas para iterar sin
// sostener el candado del registro.
func (s *RoomService) Rooms() []*models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// SweepEmptyRooms elimina las salas sin miembros ni espectadores y devuelve
// los códigos retirados. Lo llama el scheduler una vez por vuelta, nunca
// desde adentro de la iteración de ticks.
func (s *RoomService) SweepEmptyRooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for code, room := range s.rooms {
		room.Mu.Lock()
		empty := room.IsEmpty()
		room.Mu.Unlock()
		if empty {
			delete(s.rooms, code)
			removed = append(removed, code)
		}
	}
	return removed
}

// ListRooms devuelve el listado público de salas.
func (s *RoomService) ListRooms() []models.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RoomInfo, 0, len(s.rooms))
	for _, room := range s.rooms {
		room.Mu.Lock()
		out = append(out, models.RoomInfo{
			Code:       room.Code,
			Mode:       string(room.Mode),
			Players:    len(room.MemberIDs),
			Spectators: len(room.SpectatorIDs),
			Playing:    room.Playing,
		})
		room.Mu.Unlock()
	}
	return out
}

func (s *RoomService) generateRoomCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeChars[s.rng.Intn(len(roomCodeChars))]
	}
	return string(b)
}
