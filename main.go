package main

import (
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mathematicalbasedefenders/play-server/pkg/handlers"
	"github.com/mathematicalbasedefenders/play-server/pkg/redis"
	"github.com/mathematicalbasedefenders/play-server/pkg/services"
	"github.com/mathematicalbasedefenders/play-server/pkg/websocket"
)

var (
	redisClient      *redis.RedisClient
	problemService   *services.ProblemService
	inputService     *services.InputService
	roomService      *services.RoomService
	scoreService     *services.ScoreService
	anticheatService *services.AnticheatService
	gameLoopService  *services.GameLoopService
	gameHandler      *handlers.GameHandler
	roomHandler      *handlers.RoomHandler
	scoreHandler     *handlers.ScoreHandler
	hub              *websocket.Hub
)

func main() {
	log.Println("🚀 Iniciando servidor de Defensa Matemática de la Base")
	initRedis()

	// Inicializar servicios
	initServices()

	// Arrancar el bucle de simulación
	go gameLoopService.Run()

	// Configurar el servidor
	server := &fasthttp.Server{
		Handler: requestHandler,
		Name:    "Play Server",
	}

	port := getEnv("PORT", "8080")
	log.Println("🎮 Servidor de juego iniciado")
	log.Printf("📱 Juego principal: http://localhost:%s", port)
	log.Printf("🔧 API Health: http://localhost:%s/api/health", port)
	log.Printf("🏆 Tabla de posiciones: http://localhost:%s/api/leaderboard", port)
	log.Println("🔄 Presiona Ctrl+C para detener el servidor")

	if err := server.ListenAndServe(":" + port); err != nil {
		log.Fatalf("Error al iniciar el servidor: %v", err)
	}
}

func initRedis() {
	// Configuración de Redis (puedes usar variables de entorno)
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisPassword := getEnv("REDIS_PASSWORD", "")
	redisDB := 0

	log.Printf("🔌 Conectando a Redis en %s...", redisAddr)
	redisClient = redis.NewRedisClient(redisAddr, redisPassword, redisDB)
}

func initServices() {
	log.Println("⚙️  Inicializando servicios...")
	problemService = services.NewProblemService(rand.New(rand.NewSource(time.Now().UnixNano())))
	inputService = services.NewInputService()
	roomService = services.NewRoomService(problemService)
	scoreService = services.NewScoreService(redisClient)
	anticheatService = services.NewAnticheatService()

	// Inicializar WebSocket Hub
	hub = websocket.NewHub(rand.New(rand.NewSource(time.Now().UnixNano())))

	gameLoopService = services.NewGameLoopService(roomService, scoreService, anticheatService, hub)

	// Inicializar handlers
	gameHandler = handlers.NewGameHandler(roomService, inputService, hub)
	roomHandler = handlers.NewRoomHandler(roomService, scoreService)
	scoreHandler = handlers.NewScoreHandler(scoreService)
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	// Obtener la ruta solicitada
	path := string(ctx.Path())
	method := string(ctx.Method())

	// Configurar headers de respuesta
	ctx.Response.Header.Set("Server", "Play-FastHTTP/1.0")
	ctx.Response.Header.Set("Cache-Control", "no-cache")

	// Headers CORS para desarrollo
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	// Manejar preflight requests
	if method == "OPTIONS" {
		ctx.SetStatusCode(fasthttp.StatusOK)
		return
	}

	// Enrutamiento
	switch {
	// Página principal
	case path == "/":
		serveFile(ctx, "index.html")
	case path == "/favicon.ico":
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetBodyString("🎮")

	// API Routes - Health
	case path == "/api/health":
		roomHandler.HealthCheck(ctx)

	// API Routes - Salas
	case path == "/api/rooms" && method == "GET":
		roomHandler.ListRooms(ctx)
	case path == "/api/rooms" && method == "POST":
		roomHandler.CreateRoom(ctx)

	// API Routes - Puntajes
	case path == "/api/leaderboard" && method == "GET":
		scoreHandler.GetLeaderboard(ctx)
	case strings.HasPrefix(path, "/api/scores/player/") && method == "GET":
		// Manejar /api/scores/player/{playerName}
		parts := strings.Split(path, "/")
		if len(parts) == 5 && parts[1] == "api" && parts[2] == "scores" && parts[3] == "player" {
			ctx.SetUserValue("playerName", parts[4])
			scoreHandler.GetPlayerBest(ctx)
		} else {
			serve404(ctx)
		}

	// WebSocket Route
	case path == "/ws":
		gameHandler.HandleWebSocket(ctx)

	default:
		serve404(ctx)
	}
}

func serveFile(ctx *fasthttp.RequestCtx, filename string) {
	// Obtener la ruta absoluta del archivo
	filePath := filepath.Join(".", filename)

	// Verificar si el archivo existe
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetContentType("text/html; charset=utf-8")
		ctx.SetBodyString(`
			<!DOCTYPE html>
			<html>
			<head><title>Archivo no encontrado</title></head>
			<body>
				<h1>⚠️ Archivo no encontrado</h1>
				<p>El archivo <strong>` + filename + `</strong> no existe en el servidor.</p>
				<p>Asegúrate de que el cliente esté compilado en el directorio correcto.</p>
			</body>
			</html>
		`)
		return
	}

	// Configurar el content-type basado en la extensión
	if filepath.Ext(filename) == ".html" {
		ctx.SetContentType("text/html; charset=utf-8")
	}

	// Servir el archivo
	fasthttp.ServeFile(ctx, filePath)
}

func serve404(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusNotFound)
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBodyString(`
		<!DOCTYPE html>
		<html>
		<head><title>404 - Página no encontrada</title></head>
		<body>
			<h1>🎮 404 - Página no encontrada</h1>
			<p>La página que buscas no existe en este servidor.</p>
			<div>
				<h3>🔧 Endpoints API disponibles:</h3>
				<div>GET /api/health</div>
				<div>GET /api/rooms</div>
				<div>POST /api/rooms</div>
				<div>GET /api/leaderboard</div>
				<div>GET /api/scores/player/{playerName}</div>
				<div>WS /ws</div>
			</div>
		</body>
		</html>
	`)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
