package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gbr-backend/chat-service/services"
	"gbr-backend/shared/config"
	utils "gbr-backend/shared/utils/auth"
)

const sendBufferSize = 64

// InboundMessage is the frame received from chat participants
type InboundMessage struct {
	Message string `json:"message"`
}

// ChatHandler upgrades websocket connections into chat and video rooms
type ChatHandler struct {
	chat     *services.ChatService
	store    services.MessageStore
	upgrader websocket.Upgrader
}

func NewChatHandler(chat *services.ChatService, store services.MessageStore) *ChatHandler {
	return &ChatHandler{
		chat:  chat,
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}

				if origin == config.GetConfig().FrontendURL {
					return true
				}

				log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
				return false
			},
		},
	}
}

// clientFromRequest builds the participant handle. An optional token query
// parameter names the sender; anything else connects anonymously.
func clientFromRequest(c *gin.Context) *services.Client {
	token := c.Query("token")
	if token == "" {
		return services.NewClient("", nil, sendBufferSize)
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return services.NewClient("", nil, sendBufferSize)
	}

	memberID, err := uuid.Parse(claims.MemberID)
	if err != nil {
		return services.NewClient(claims.Username, nil, sendBufferSize)
	}

	return services.NewClient(claims.Username, &memberID, sendBufferSize)
}

// writePump forwards queued frames to the socket until a write fails or the
// participant leaves and its outbound channel closes
func writePump(conn *websocket.Conn, client *services.Client) {
	for frame := range client.Outbound() {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}

// HandleChat handles websocket chat connections
// @Summary Company chat room
// @Description Establish a websocket connection to a company chat room. Inbound frames are {"message": string}; outbound frames add username and timestamp.
// @Tags chat
// @Param company_id path string true "Company ID"
// @Param token query string false "JWT naming the sender; omitted senders appear as Anonymous"
// @Router /ws/chat/{company_id} [get]
func (h *ChatHandler) HandleChat(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID format"})
		return
	}

	exists, err := h.store.CompanyExists(companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not verify company"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Failed to upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	client := clientFromRequest(c)
	room := services.ChatRoomKey(companyID)

	h.chat.Join(room, client)
	defer h.chat.Leave(room, client)

	go writePump(conn, client)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket error in %s: %v", room, err)
			}
			return
		}

		var inbound InboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil || inbound.Message == "" {
			continue
		}

		// The sender is not notified when persistence fails; the message
		// is simply not delivered.
		if err := h.chat.Send(companyID, client, inbound.Message); err != nil {
			log.Printf("❌ Failed to relay message in %s: %v", room, err)
		}
	}
}

// HandleVideo handles websocket video signaling connections
// @Summary Company video signaling room
// @Description Establish a websocket connection that relays video-call signaling frames between participants of a company. Frames are passed through untouched and never persisted.
// @Tags chat
// @Param company_id path string true "Company ID"
// @Param token query string false "JWT naming the sender"
// @Router /ws/video/{company_id} [get]
func (h *ChatHandler) HandleVideo(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID format"})
		return
	}

	exists, err := h.store.CompanyExists(companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not verify company"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Failed to upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	client := clientFromRequest(c)
	room := services.VideoRoomKey(companyID)

	h.chat.Join(room, client)
	defer h.chat.Leave(room, client)

	go writePump(conn, client)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket error in %s: %v", room, err)
			}
			return
		}

		h.chat.Relay(room, client, data)
	}
}
