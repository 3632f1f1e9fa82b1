package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"gbr-backend/shared/database/models"
)

type mockMessageStore struct {
	saveFn   func(msg *models.ChatMessage) error
	existsFn func(companyID uuid.UUID) (bool, error)
	saved    []*models.ChatMessage
}

func (m *mockMessageStore) SaveMessage(msg *models.ChatMessage) error {
	if m.saveFn != nil {
		if err := m.saveFn(msg); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, msg)
	return nil
}

func (m *mockMessageStore) CompanyExists(companyID uuid.UUID) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(companyID)
	}
	return true, nil
}

func receiveFrame(t *testing.T, client *Client) OutboundMessage {
	t.Helper()

	select {
	case frame := <-client.Outbound():
		var msg OutboundMessage
		if err := json.Unmarshal(frame, &msg); err != nil {
			t.Fatalf("failed to decode frame: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return OutboundMessage{}
	}
}

func assertNoFrame(t *testing.T, client *Client) {
	t.Helper()

	select {
	case frame, ok := <-client.Outbound():
		if ok {
			t.Fatalf("unexpected frame delivered: %s", frame)
		}
	default:
	}
}

func TestSendDeliversToOthersNotSender(t *testing.T) {
	store := &mockMessageStore{}
	svc := NewChatService(store)
	companyID := uuid.New()
	room := ChatRoomKey(companyID)

	aliceID := uuid.New()
	alice := NewClient("alice", &aliceID, 8)
	bob := NewClient("bob", nil, 8)

	svc.Join(room, alice)
	svc.Join(room, bob)

	if err := svc.Send(companyID, alice, "hello"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	got := receiveFrame(t, bob)
	if got.Message != "hello" {
		t.Errorf("message = %q, want %q", got.Message, "hello")
	}
	if got.Username != "alice" {
		t.Errorf("username = %q, want %q", got.Username, "alice")
	}

	// No echo back to the sender
	assertNoFrame(t, alice)
}

func TestSendPersistsBeforeBroadcast(t *testing.T) {
	store := &mockMessageStore{}
	svc := NewChatService(store)
	companyID := uuid.New()
	room := ChatRoomKey(companyID)

	alice := NewClient("alice", nil, 8)
	bob := NewClient("bob", nil, 8)
	svc.Join(room, alice)
	svc.Join(room, bob)

	before := time.Now().UTC()
	if err := svc.Send(companyID, alice, "hello"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected 1 persisted message, got %d", len(store.saved))
	}

	saved := store.saved[0]
	if saved.CompanyID != companyID {
		t.Errorf("persisted company = %v, want %v", saved.CompanyID, companyID)
	}
	if saved.Message != "hello" {
		t.Errorf("persisted message = %q, want %q", saved.Message, "hello")
	}
	if saved.CreatedAt.Before(before.Truncate(time.Second)) {
		t.Errorf("persisted timestamp %v predates the send", saved.CreatedAt)
	}

	// The delivered timestamp is the persisted timestamp
	got := receiveFrame(t, bob)
	if got.Timestamp != saved.CreatedAt.Format("2006-01-02 15:04:05") {
		t.Errorf("delivered timestamp %q does not match persisted %v", got.Timestamp, saved.CreatedAt)
	}
}

func TestSendSuppressesBroadcastOnPersistenceFailure(t *testing.T) {
	store := &mockMessageStore{
		saveFn: func(*models.ChatMessage) error { return errors.New("disk full") },
	}
	svc := NewChatService(store)
	companyID := uuid.New()
	room := ChatRoomKey(companyID)

	alice := NewClient("alice", nil, 8)
	bob := NewClient("bob", nil, 8)
	svc.Join(room, alice)
	svc.Join(room, bob)

	if err := svc.Send(companyID, alice, "hello"); err == nil {
		t.Fatal("expected error when persistence fails")
	}

	assertNoFrame(t, bob)
	if len(store.saved) != 0 {
		t.Errorf("expected no persisted message, got %d", len(store.saved))
	}
}

func TestAnonymousSenderLabel(t *testing.T) {
	store := &mockMessageStore{}
	svc := NewChatService(store)
	companyID := uuid.New()
	room := ChatRoomKey(companyID)

	anon := NewClient("", nil, 8)
	bob := NewClient("bob", nil, 8)
	svc.Join(room, anon)
	svc.Join(room, bob)

	if err := svc.Send(companyID, anon, "hi"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	got := receiveFrame(t, bob)
	if got.Username != "Anonymous" {
		t.Errorf("username = %q, want %q", got.Username, "Anonymous")
	}

	if store.saved[0].MemberID != nil {
		t.Errorf("anonymous message must not reference a member, got %v", store.saved[0].MemberID)
	}
}

func TestRoomsAreIsolated(t *testing.T) {
	store := &mockMessageStore{}
	svc := NewChatService(store)

	companyA := uuid.New()
	companyB := uuid.New()

	alice := NewClient("alice", nil, 8)
	bob := NewClient("bob", nil, 8)
	svc.Join(ChatRoomKey(companyA), alice)
	svc.Join(ChatRoomKey(companyB), bob)

	if err := svc.Send(companyA, alice, "hello"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	assertNoFrame(t, bob)
}

func TestLeaveStopsDelivery(t *testing.T) {
	store := &mockMessageStore{}
	svc := NewChatService(store)
	companyID := uuid.New()
	room := ChatRoomKey(companyID)

	alice := NewClient("alice", nil, 8)
	bob := NewClient("bob", nil, 8)
	svc.Join(room, alice)
	svc.Join(room, bob)

	svc.Leave(room, bob)
	if got := svc.ParticipantCount(room); got != 1 {
		t.Errorf("participant count = %d, want 1", got)
	}

	if err := svc.Send(companyID, alice, "hello"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	assertNoFrame(t, bob)
}

func TestLeaveReleasesWritePump(t *testing.T) {
	svc := NewChatService(&mockMessageStore{})
	companyID := uuid.New()
	room := ChatRoomKey(companyID)

	client := NewClient("alice", nil, 8)
	svc.Join(room, client)

	// Model a connection's write pump draining the outbound channel
	done := make(chan struct{})
	go func() {
		for range client.Outbound() {
		}
		close(done)
	}()

	svc.Leave(room, client)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump still blocked after Leave")
	}
}

func TestSlowReceiverDropsFrames(t *testing.T) {
	store := &mockMessageStore{}
	svc := NewChatService(store)
	companyID := uuid.New()
	room := ChatRoomKey(companyID)

	alice := NewClient("alice", nil, 8)
	slow := NewClient("slow", nil, 1)
	svc.Join(room, alice)
	svc.Join(room, slow)

	if err := svc.Send(companyID, alice, "first"); err != nil {
		t.Fatalf("first Send returned error: %v", err)
	}
	// The second frame finds the buffer full and is dropped, not blocked on
	if err := svc.Send(companyID, alice, "second"); err != nil {
		t.Fatalf("second Send returned error: %v", err)
	}

	got := receiveFrame(t, slow)
	if got.Message != "first" {
		t.Errorf("message = %q, want %q", got.Message, "first")
	}
	assertNoFrame(t, slow)

	// Both messages made the durable log regardless of delivery
	if len(store.saved) != 2 {
		t.Errorf("persisted messages = %d, want 2", len(store.saved))
	}
}

func TestRelayDoesNotPersist(t *testing.T) {
	store := &mockMessageStore{}
	svc := NewChatService(store)
	companyID := uuid.New()
	room := VideoRoomKey(companyID)

	alice := NewClient("alice", nil, 8)
	bob := NewClient("bob", nil, 8)
	svc.Join(room, alice)
	svc.Join(room, bob)

	payload := []byte(`{"type":"offer","sdp":"v=0"}`)
	svc.Relay(room, alice, payload)

	select {
	case frame := <-bob.Outbound():
		if string(frame) != string(payload) {
			t.Errorf("relayed frame = %s, want %s", frame, payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for relayed frame")
	}

	assertNoFrame(t, alice)
	if len(store.saved) != 0 {
		t.Errorf("relay must not persist, got %d messages", len(store.saved))
	}
}
