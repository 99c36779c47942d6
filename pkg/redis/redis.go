package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
)

// Claves usadas por el juego en Redis.
const (
	keyLeaderboard  = "play:leaderboard"
	keyScorePrefix  = "play:score:"
	keyBestPrefix   = "play:best:"
	keyReplayPrefix = "play:replay:"
)

// RedisClient estructura para manejar conexiones con Redis
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient crea una nueva instancia del cliente Redis
func NewRedisClient(addr, password string, db int) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	// Verificar conexión
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("❌ Error conectando a Redis: %v", err)
	}

	log.Println("✅ Conexión exitosa a Redis")

	return &RedisClient{
		client: rdb,
		ctx:    ctx,
	}
}

// SaveScoreRecord guarda el registro de una partida terminada.
func (r *RedisClient) SaveScoreRecord(record models.ScoreRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error serializando puntaje: %v", err)
	}

	key := keyScorePrefix + record.ID
	return r.client.Set(r.ctx, key, recordJSON, 0).Err()
}

// GetPersonalBest obtiene el mejor puntaje registrado de un jugador.
// Devuelve 0 sin error cuando el jugador no tiene puntajes todavía.
func (r *RedisClient) GetPersonalBest(playerName string) (int, error) {
	value, err := r.client.Get(r.ctx, keyBestPrefix+playerName).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("error obteniendo récord personal: %v", err)
	}
	return value, nil
}

// SetPersonalBest actualiza el mejor puntaje de un jugador.
func (r *RedisClient) SetPersonalBest(playerName string, score int) error {
	return r.client.Set(r.ctx, keyBestPrefix+playerName, score, 0).Err()
}

// UpdateLeaderboard anota el puntaje en la tabla global solo si mejora el
// puntaje ya registrado para ese jugador.
func (r *RedisClient) UpdateLeaderboard(playerName string, score int) error {
	return r.client.ZAddGT(r.ctx, keyLeaderboard, redis.Z{
		Score:  float64(score),
		Member: playerName,
	}).Err()
}

// GetLeaderboard obtiene las mejores entradas de la tabla de posiciones.
func (r *RedisClient) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	results, err := r.client.ZRevRangeWithScores(r.ctx, keyLeaderboard, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("error obteniendo tabla de posiciones: %v", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(results))
	for i, z := range results {
		name, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Position:   i + 1,
			PlayerName: name,
			Score:      int(z.Score),
		})
	}
	return entries, nil
}

// GetLeaderboardRank devuelve la posición (desde 1) de un jugador en la
// tabla. ok=false cuando el jugador no aparece.
func (r *RedisClient) GetLeaderboardRank(playerName string) (int, bool, error) {
	rank, err := r.client.ZRevRank(r.ctx, keyLeaderboard, playerName).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("error obteniendo posición: %v", err)
	}
	return int(rank) + 1, true, nil
}

// GetLeaderboardCount devuelve cuántos jugadores tienen puntaje registrado.
func (r *RedisClient) GetLeaderboardCount() (int, error) {
	count, err := r.client.ZCard(r.ctx, keyLeaderboard).Result()
	if err != nil {
		return 0, fmt.Errorf("error contando jugadores: %v", err)
	}
	return int(count), nil
}

// ArchiveReplay guarda la bitácora de acciones de una sesión para auditoría
// posterior, con un TTL de 24 horas.
func (r *RedisClient) ArchiveReplay(gameSessionID string, records []models.ActionRecord) error {
	replayJSON, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("error serializando replay: %v", err)
	}

	key := keyReplayPrefix + gameSessionID
	return r.client.Set(r.ctx, key, replayJSON, 24*time.Hour).Err()
}

// Close cierra la conexión con Redis
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// HealthCheck verifica que Redis esté funcionando
func (r *RedisClient) HealthCheck() error {
	_, err := r.client.Ping(r.ctx).Result()
	if err != nil {
		return fmt.Errorf("redis health check failed: %v", err)
	}
	return nil
}
