package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
	"github.com/mathematicalbasedefenders/play-server/pkg/redis"
)

// ScoreService es la frontera de persistencia de puntajes: compara contra
// el récord personal, alimenta la tabla de posiciones y archiva el replay.
// La simulación nunca espera por él; se invoca al terminar la partida.
type ScoreService struct {
	redisClient *redis.RedisClient
}

// NewScoreService crea el servicio de puntajes.
func NewScoreService(redisClient *redis.RedisClient) *ScoreService {
	return &ScoreService{redisClient: redisClient}
}

// SubmitScore persiste el resultado de una partida y devuelve la anotación
// para mostrar al jugador. Un veredicto marcado por el anticheat se archiva
// igual (con la marca y la razón) pero no entra a la tabla de posiciones.
func (s *ScoreService) SubmitScore(gd *models.GameData, verdict Verdict) (string, error) {
	record := models.ScoreRecord{
		ID:            uuid.New().String(),
		GameSessionID: gd.GameSessionID,
		PlayerName:    gd.OwnerName,
		Mode:          gd.Mode,
		Score:         gd.Score,
		EnemiesKilled: gd.EnemiesKilled,
		ElapsedTime:   gd.ElapsedTime,
		Flagged:       !verdict.OK,
		FlagReason:    verdict.Reason,
		SubmittedAt:   time.Now(),
	}

	if err := s.redisClient.SaveScoreRecord(record); err != nil {
		return "", fmt.Errorf("error guardando puntaje: %v", err)
	}

	if err := s.redisClient.ArchiveReplay(gd.GameSessionID, gd.ActionLog); err != nil {
		log.Printf("⚠️ Error archivando replay de %s: %v", gd.GameSessionID, err)
	}

	if record.Flagged {
		log.Printf("🚨 Puntaje de %s marcado por anticheat: %s", gd.OwnerName, verdict.Reason)
		return "puntaje bajo revisión", nil
	}

	best, err := s.redisClient.GetPersonalBest(gd.OwnerName)
	if err != nil {
		return "", err
	}

	annotation := fmt.Sprintf("puntaje final: %d", gd.Score)
	if gd.Score > best {
		if err := s.redisClient.SetPersonalBest(gd.OwnerName, gd.Score); err != nil {
			log.Printf("⚠️ Error actualizando récord de %s: %v", gd.OwnerName, err)
		}
		annotation = "🏆 ¡Nuevo récord personal!"
	}

	if err := s.redisClient.UpdateLeaderboard(gd.OwnerName, gd.Score); err != nil {
		log.Printf("⚠️ Error actualizando tabla de posiciones: %v", err)
		return annotation, nil
	}

	if rank, ok, err := s.redisClient.GetLeaderboardRank(gd.OwnerName); err == nil && ok {
		annotation = fmt.Sprintf("%s (posición global: #%d)", annotation, rank)
	}
	return annotation, nil
}

// GetLeaderboard obtiene la tabla de posiciones para la API.
func (s *ScoreService) GetLeaderboard(limit int) (*models.LeaderboardResponse, error) {
	entries, err := s.redisClient.GetLeaderboard(limit)
	if err != nil {
		return nil, err
	}
	total, err := s.redisClient.GetLeaderboardCount()
	if err != nil {
		return nil, err
	}
	return &models.LeaderboardResponse{
		Leaderboard:  entries,
		TotalPlayers: total,
	}, nil
}

// GetPersonalBest obtiene el récord de un jugador para la API.
func (s *ScoreService) GetPersonalBest(playerName string) (int, error) {
	return s.redisClient.GetPersonalBest(playerName)
}

// HealthCheck verifica que la persistencia esté disponible.
func (s *ScoreService) HealthCheck() error {
	if err := s.redisClient.HealthCheck(); err != nil {
		return fmt.Errorf("error en health check de Redis: %v", err)
	}
	return nil
}
