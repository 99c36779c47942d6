package websocket

import (
	"encoding/json"
	"log"
	"math/rand"
	"sync"

	"github.com/fasthttp/websocket"

	"github.com/mathematicalbasedefenders/play-server/pkg/models"
)

// Alfabeto ponderado para los identificadores de conexión: las letras
// legibles y los dígitos aparecen repetidos para pesarlos más.
const connectionIDChars = "aabbccddeeffgghhjjkkmmnnppqqrrssttuuvvwwxyz0011223344556677889"

const connectionIDLength = 16

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializa escrituras al socket
}

// Hub es el registro de conexiones vivas: asigna identificadores opacos,
// enruta envíos individuales y retransmite a grupos. Se inyecta donde se
// necesita, nunca se accede como estado global.
type Hub struct {
	mutex   sync.RWMutex
	clients map[string]*client
	rng     *rand.Rand // solo se toca bajo mutex
}

// NewHub crea un registro de conexiones vacío con su propia fuente aleatoria.
func NewHub(rng *rand.Rand) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		rng:     rng,
	}
}

// Register agrega un socket y devuelve su identificador de conexión,
// generado del pool ponderado y reintentado ante colisión con cualquier
// conexión viva.
func (h *Hub) Register(conn *websocket.Conn) string {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	var id string
	for {
		id = h.generateConnectionID()
		if _, exists := h.clients[id]; !exists {
			break
		}
	}
	h.clients[id] = &client{conn: conn}
	log.Printf("🔌 Cliente conectado (ID: %s). Total: %d", id, len(h.clients))
	return id
}

// Unregister cierra y elimina la conexión. Un id desconocido es un caso
// normal (doble desconexión por carrera de red), no un error.
func (h *Hub) Unregister(connectionID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	c, ok := h.clients[connectionID]
	if !ok {
		return
	}
	delete(h.clients, connectionID)
	c.conn.Close()
	log.Printf("🔌 Cliente desconectado (ID: %s). Total: %d", connectionID, len(h.clients))
}

// Count devuelve la cantidad de conexiones vivas.
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Send serializa y envía un mensaje a una sola conexión. El envío es
// fire-and-forget: si el socket falla se elimina la conexión y se sigue.
func (h *Hub) Send(connectionID, msgType string, data interface{}) {
	h.mutex.RLock()
	c, ok := h.clients[connectionID]
	h.mutex.RUnlock()
	if !ok {
		return
	}

	payload, err := json.Marshal(models.OutboundMessage{Type: msgType, Data: data})
	if err != nil {
		log.Printf("Error serializando mensaje: %v", err)
		return
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, payload)
	c.mu.Unlock()
	if err != nil {
		log.Printf("Error enviando mensaje WebSocket a %s: %v", connectionID, err)
		h.Unregister(connectionID)
	}
}

// SendToMany envía el mismo mensaje a un grupo de conexiones.
func (h *Hub) SendToMany(connectionIDs []string, msgType string, data interface{}) {
	for _, id := range connectionIDs {
		h.Send(id, msgType, data)
	}
}

func (h *Hub) generateConnectionID() string {
	b := make([]byte, connectionIDLength)
	for i := range b {
		b[i] = connectionIDChars[h.rng.Intn(len(connectionIDChars))]
	}
	return string(b)
}
