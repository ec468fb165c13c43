package subscribe_area_events

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/m04kA/PWS-ReservationService/internal/api/handlers"
)

const (
	msgInvalidArea = "некорректная зона обслуживания"

	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Handler struct {
	broker EventBroker
	logger Logger
}

func NewHandler(broker EventBroker, logger Logger) *Handler {
	return &Handler{
		broker: broker,
		logger: logger,
	}
}

// Handle GET /api/v1/areas/{area}/events
//
// Апгрейдит соединение до websocket и транслирует события резерваций
// зоны обслуживания. Доставка best-effort: события до подключения не
// реплеятся, медленный клиент теряет события.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	area := vars["area"]

	if area == "" {
		h.logger.Warn("GET /areas/{area}/events - Empty area")
		handlers.RespondBadRequest(w, msgInvalidArea)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("GET /areas/{area}/events - Upgrade failed: area=%s, error=%v", area, err)
		return
	}

	sub := h.broker.Subscribe(area)
	h.logger.Info("GET /areas/{area}/events - Subscriber connected: area=%s", area)

	// Читающая горутина нужна только чтобы заметить закрытие соединения
	// клиентом: входящие сообщения игнорируются.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		h.broker.Unsubscribe(sub)
		conn.Close()
		h.logger.Info("GET /areas/{area}/events - Subscriber disconnected: area=%s", area)
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Warn("GET /areas/{area}/events - Write failed: area=%s, error=%v", area, err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
