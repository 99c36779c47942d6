package services

import (
	"log"
	"time"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
	"github.com/mathematicalbasedefenders/play-server/pkg/websocket"
)

// TickRate frecuencia objetivo del bucle de simulación.
const TickRate = 60

// GameLoopService es el conductor de ritmo fijo: en cada vuelta avanza
// todas las salas vivas, difunde los estados resultantes y al final barre
// las salas vacías. La eliminación de salas nunca ocurre dentro de la
// iteración que las recorre.
type GameLoopService struct {
	roomService      *RoomService
	scoreService     *ScoreService
	anticheatService *AnticheatService
	hub              *websocket.Hub
	quit             chan struct{}
}

// NewGameLoopService crea el scheduler sin arrancarlo.
func NewGameLoopService(roomService *RoomService, scoreService *ScoreService, anticheatService *AnticheatService, hub *websocket.Hub) *GameLoopService {
	return &GameLoopService{
		roomService:      roomService,
		scoreService:     scoreService,
		anticheatService: anticheatService,
		hub:              hub,
		quit:             make(chan struct{}),
	}
}

// Run ejecuta el bucle hasta que Stop lo detenga. Se lanza en su propia
// goroutine desde el arranque del servidor.
func (l *GameLoopService) Run() {
	log.Printf("🎮 Bucle de simulación iniciado a %d Hz", TickRate)
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-l.quit:
			log.Println("🛑 Bucle de simulación detenido")
			return
		case now := <-ticker.C:
			delta := float64(now.Sub(last).Microseconds()) / 1000.0
			last = now
			l.tickAll(delta)
		}
	}
}

// Stop detiene el bucle.
func (l *GameLoopService) Stop() {
	close(l.quit)
}

func (l *GameLoopService) tickAll(deltaMs float64) {
	for _, room := range l.roomService.Rooms() {
		l.tickRoom(room, deltaMs)
	}

	for _, code := range l.roomService.SweepEmptyRooms() {
		log.Printf("🧹 Sala %s eliminada (sin miembros ni espectadores)", code)
	}
}

// tickRoom avanza una sala y difunde su estado. Un pánico dentro de una
// sala se registra y no alcanza a las demás: el aislamiento de fallas
// termina en la frontera de la sala.
func (l *GameLoopService) tickRoom(room *models.Room, deltaMs float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Pánico en la sala %s: %v", room.Code, r)
		}
	}()

	room.Mu.Lock()
	wasPlaying := room.Playing
	room.Update(deltaMs)
	gameOver := wasPlaying && room.GameOver

	var snapshots []models.GameDataSnapshot
	if wasPlaying {
		snapshots = room.BuildSnapshots()
	}
	spectators := append([]string(nil), room.SpectatorIDs...)

	var finished []*models.GameData
	if gameOver {
		finished = append(finished, room.GameData...)
	}
	room.Mu.Unlock()

	// Cada miembro recibe solo su propio estado; los espectadores reciben
	// el de todos. Los snapshots ya no llevan la respuesta solicitada.
	for _, snapshot := range snapshots {
		l.hub.Send(snapshot.Owner, models.OutboundGameState, snapshot)
	}
	if len(spectators) > 0 && len(snapshots) > 0 {
		l.hub.SendToMany(spectators, models.OutboundGameState, snapshots)
	}

	if gameOver {
		log.Printf("🏁 Partida terminada en la sala %s", room.Code)
		go l.finishGame(finished)
	}
}

// finishGame verifica cada bitácora y entrega los puntajes a la frontera de
// persistencia. Corre fuera del bucle: la simulación no espera por Redis.
func (l *GameLoopService) finishGame(finished []*models.GameData) {
	for _, gd := range finished {
		verdict := l.anticheatService.Verify(gd.ActionLog)
		annotation, err := l.scoreService.SubmitScore(gd, verdict)
		if err != nil {
			log.Printf("⚠️ Error enviando puntaje de %s: %v", gd.OwnerName, err)
			annotation = "puntaje no registrado"
		}
		l.hub.Send(gd.OwnerConnectionID, models.OutboundGameOver, models.GameOverData{
			Score:         gd.Score,
			EnemiesKilled: gd.EnemiesKilled,
			ElapsedTime:   gd.ElapsedTime,
			Flagged:       !verdict.OK,
			Annotation:    annotation,
		})
	}
}
