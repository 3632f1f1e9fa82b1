package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gbr-backend/shared/database/models"
)

// AnonymousUsername labels unauthenticated senders. Clients rely on this
// exact string for display.
const AnonymousUsername = "Anonymous"

const timestampLayout = "2006-01-02 15:04:05"

// OutboundMessage is the frame delivered to chat participants
type OutboundMessage struct {
	Message   string `json:"message"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// MessageStore persists the durable chat log
type MessageStore interface {
	SaveMessage(msg *models.ChatMessage) error
	CompanyExists(companyID uuid.UUID) (bool, error)
}

// GormMessageStore is the database-backed MessageStore
type GormMessageStore struct {
	db *gorm.DB
}

func NewGormMessageStore(db *gorm.DB) *GormMessageStore {
	return &GormMessageStore{db: db}
}

func (s *GormMessageStore) SaveMessage(msg *models.ChatMessage) error {
	return s.db.Create(msg).Error
}

func (s *GormMessageStore) CompanyExists(companyID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Company{}).Where("id = ?", companyID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Client is one connected participant. Frames are delivered through a
// buffered channel; a full buffer drops the frame rather than blocking the
// room.
type Client struct {
	Username string
	MemberID *uuid.UUID
	send     chan []byte

	closeOnce sync.Once
}

// NewClient creates a participant handle. Empty username means anonymous.
func NewClient(username string, memberID *uuid.UUID, buffer int) *Client {
	return &Client{
		Username: username,
		MemberID: memberID,
		send:     make(chan []byte, buffer),
	}
}

// Outbound returns the channel of frames queued for this participant. The
// channel is closed when the participant leaves its room.
func (c *Client) Outbound() <-chan []byte {
	return c.send
}

// Close shuts the outbound channel so the connection's write pump exits.
// Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// DisplayName returns the username or the anonymous label
func (c *Client) DisplayName() string {
	if c.Username == "" {
		return AnonymousUsername
	}
	return c.Username
}

// ChatRoomKey builds the broadcast group key for a company chat room
func ChatRoomKey(companyID uuid.UUID) string {
	return fmt.Sprintf("chat_%s", companyID)
}

// VideoRoomKey builds the broadcast group key for a company video room
func VideoRoomKey(companyID uuid.UUID) string {
	return fmt.Sprintf("video_%s", companyID)
}

// ChatService relays messages between participants of the same company room
// and keeps the durable log. The registry is a mutex-guarded map from room
// key to the set of live participants.
type ChatService struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
	store MessageStore
}

func NewChatService(store MessageStore) *ChatService {
	return &ChatService{
		rooms: make(map[string]map[*Client]bool),
		store: store,
	}
}

// Join registers a participant into a broadcast group. No history is
// replayed; the participant sees messages sent after this point.
func (s *ChatService) Join(room string, client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants, exists := s.rooms[room]
	if !exists {
		participants = make(map[*Client]bool)
		s.rooms[room] = participants
	}
	participants[client] = true

	log.Printf("🔌 Participant joined %s (%d connected)", room, len(participants))
}

// Leave removes a participant from a broadcast group and closes its outbound
// channel. Closing under the registry lock means no broadcast can still be
// delivering to the participant.
func (s *ChatService) Leave(room string, client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client.Close()

	participants, exists := s.rooms[room]
	if !exists {
		return
	}

	delete(participants, client)
	if len(participants) == 0 {
		delete(s.rooms, room)
	}

	log.Printf("🔌 Participant left %s (%d connected)", room, len(participants))
}

// ParticipantCount returns the number of participants in a room
func (s *ChatService) ParticipantCount(room string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms[room])
}

// Send persists the message, then broadcasts it to every other participant
// of the company chat room. When persistence fails the broadcast does not
// happen, keeping the durable log and the delivered view consistent.
func (s *ChatService) Send(companyID uuid.UUID, sender *Client, text string) error {
	msg := &models.ChatMessage{
		CompanyID: companyID,
		MemberID:  sender.MemberID,
		Message:   text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.SaveMessage(msg); err != nil {
		return fmt.Errorf("could not persist chat message: %w", err)
	}

	frame, err := json.Marshal(OutboundMessage{
		Message:   text,
		Username:  sender.DisplayName(),
		Timestamp: msg.CreatedAt.Format(timestampLayout),
	})
	if err != nil {
		return fmt.Errorf("could not encode chat message: %w", err)
	}

	s.broadcast(ChatRoomKey(companyID), sender, frame)
	return nil
}

// Relay fans a raw signaling frame out to every other participant of a room.
// Nothing is persisted; video signaling is transient.
func (s *ChatService) Relay(room string, sender *Client, payload []byte) {
	s.broadcast(room, sender, payload)
}

// broadcast delivers a frame to every participant except the sender. Each
// participant's connection is independent; a slow one drops the frame.
func (s *ChatService) broadcast(room string, sender *Client, frame []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for participant := range s.rooms[room] {
		if participant == sender {
			continue
		}
		select {
		case participant.send <- frame:
		default:
			log.Printf("⚠️ Send buffer full, dropping frame for a participant of %s", room)
		}
	}
}
