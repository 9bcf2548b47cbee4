package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/embodywellness/member-api/internal/models"
)

func TestSendMessage_MemberPostsToOwnThread(t *testing.T) {
	t.Parallel()

	repo := &fakeMessageRepo{}
	handler := NewMessageHandler(repo)
	member := testMember()

	body := `{"message": "How should I adjust this week?"}`
	req := asUser(httptest.NewRequest("POST", "/messages", strings.NewReader(body)), member)
	rr := httptest.NewRecorder()
	handler.SendMessage(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (body: %s)", rr.Code, rr.Body.String())
	}

	env := decodeEnvelope(t, rr)
	var msg models.Message
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatalf("Failed to decode message: %v", err)
	}
	if msg.Sender != models.SenderMember {
		t.Errorf("Expected sender member, got %s", msg.Sender)
	}
	if msg.ProfileID != member.ID {
		t.Errorf("Expected thread %s, got %s", member.ID, msg.ProfileID)
	}
	if msg.Body != "How should I adjust this week?" {
		t.Errorf("Unexpected message body: %q", msg.Body)
	}
}

func TestSendMessage_MemberCannotPostToOtherThread(t *testing.T) {
	t.Parallel()

	repo := &fakeMessageRepo{}
	handler := NewMessageHandler(repo)

	other := uuid.New()
	body := fmt.Sprintf(`{"message": "hi", "profile_id": %q}`, other)
	req := asUser(httptest.NewRequest("POST", "/messages", strings.NewReader(body)), testMember())
	rr := httptest.NewRecorder()
	handler.SendMessage(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
	if len(repo.messages) != 0 {
		t.Errorf("Expected no stored messages, got %d", len(repo.messages))
	}
}

func TestSendMessage_CoachPostsToMemberThread(t *testing.T) {
	t.Parallel()

	repo := &fakeMessageRepo{}
	handler := NewMessageHandler(repo)

	memberID := uuid.New()
	body := fmt.Sprintf(`{"message": "Great progress this week", "profile_id": %q}`, memberID)
	req := asUser(httptest.NewRequest("POST", "/messages", strings.NewReader(body)), testCoach())
	rr := httptest.NewRecorder()
	handler.SendMessage(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (body: %s)", rr.Code, rr.Body.String())
	}

	env := decodeEnvelope(t, rr)
	var msg models.Message
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatalf("Failed to decode message: %v", err)
	}
	if msg.Sender != models.SenderCoach {
		t.Errorf("Expected sender coach, got %s", msg.Sender)
	}
	if msg.ProfileID != memberID {
		t.Errorf("Expected thread %s, got %s", memberID, msg.ProfileID)
	}
}

func TestSendMessage_RejectsEmptyBody(t *testing.T) {
	t.Parallel()

	handler := NewMessageHandler(&fakeMessageRepo{})

	req := asUser(httptest.NewRequest("POST", "/messages", strings.NewReader(`{"message": ""}`)), testMember())
	rr := httptest.NewRecorder()
	handler.SendMessage(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty message, got %d", rr.Code)
	}
}

func TestListMessages_ReturnsOwnThreadInOrder(t *testing.T) {
	t.Parallel()

	member := testMember()
	repo := &fakeMessageRepo{
		messages: []*models.Message{
			{ID: uuid.New(), ProfileID: member.ID, Sender: models.SenderMember, Body: "first",
				CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), ProfileID: member.ID, Sender: models.SenderCoach, Body: "second",
				CreatedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), ProfileID: uuid.New(), Sender: models.SenderMember, Body: "someone else"},
		},
	}
	handler := NewMessageHandler(repo)

	req := asUser(httptest.NewRequest("GET", "/messages", nil), member)
	rr := httptest.NewRecorder()
	handler.ListMessages(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	env := decodeEnvelope(t, rr)
	var messages []models.Message
	if err := json.Unmarshal(env.Data, &messages); err != nil {
		t.Fatalf("Failed to decode messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages in own thread, got %d", len(messages))
	}
	if messages[0].Body != "first" || messages[1].Body != "second" {
		t.Errorf("Unexpected thread order: %q, %q", messages[0].Body, messages[1].Body)
	}
}

func TestListMessages_MemberCannotReadOtherThread(t *testing.T) {
	t.Parallel()

	handler := NewMessageHandler(&fakeMessageRepo{})

	req := asUser(httptest.NewRequest("GET", "/messages?profile_id="+uuid.NewString(), nil), testMember())
	rr := httptest.NewRecorder()
	handler.ListMessages(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
}

func TestListMessages_EmptyThreadIsEmptyArray(t *testing.T) {
	t.Parallel()

	handler := NewMessageHandler(&fakeMessageRepo{})

	req := asUser(httptest.NewRequest("GET", "/messages", nil), testMember())
	rr := httptest.NewRecorder()
	handler.ListMessages(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"data":[]`) {
		t.Errorf("Expected empty array data, got %s", rr.Body.String())
	}
}
