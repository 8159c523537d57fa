package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/msgs"
)

func TestHealthzNeedsNoAuth(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.doRequest(t, http.MethodGet, "/healthz", "", nil)
	requireStatus(t, recorder, http.StatusOK)
	if body := decodeEnvelope(t, recorder); !body.Success {
		t.Fatalf("health probe reported failure: %+v", body)
	}
}

func TestProtectedRoutesRejectMissingOrGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.doRequest(t, http.MethodGet, "/api/v1/conversations", "", nil)
	requireStatus(t, recorder, http.StatusUnauthorized)

	recorder = env.doRequest(t, http.MethodGet, "/api/v1/conversations", "not-a-jwt", nil)
	requireStatus(t, recorder, http.StatusUnauthorized)
	if body := decodeEnvelope(t, recorder); body.Message != msgs.MsgYouMustLoginFirst {
		t.Fatalf("got message %q, want %q", body.Message, msgs.MsgYouMustLoginFirst)
	}
}

func TestConversationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	doctor := env.createUser(t, "Dora", enums.ROLE_DOCTOR)
	patient := env.createUser(t, "Pat", enums.ROLE_PATIENT)
	doctorToken := mintToken(t, doctor)
	patientToken := mintToken(t, patient)

	// Patient opens the conversation with the doctor.
	recorder := env.doRequest(t, http.MethodPost, "/api/v1/conversations", patientToken,
		models.CreateConversationRequestBody{ParticipantID: doctor.ID})
	requireStatus(t, recorder, http.StatusOK)
	body := decodeEnvelope(t, recorder)
	if body.Message != msgs.MsgConversationCreated {
		t.Fatalf("got message %q, want %q", body.Message, msgs.MsgConversationCreated)
	}
	var conversation models.ConversationResponse
	if err := json.Unmarshal(body.Data, &conversation); err != nil {
		t.Fatalf("failed to decode conversation: %v", err)
	}
	if conversation.ID == 0 || len(conversation.Members) != 2 {
		t.Fatalf("unexpected conversation %+v", conversation)
	}

	// Doctor sends a message.
	messagesPath := fmt.Sprintf("/api/v1/conversations/%d/messages", conversation.ID)
	recorder = env.doRequest(t, http.MethodPost, messagesPath, doctorToken,
		models.SendMessageRequestBody{Body: "hello"})
	requireStatus(t, recorder, http.StatusOK)
	body = decodeEnvelope(t, recorder)
	var message models.MessageResponse
	if err := json.Unmarshal(body.Data, &message); err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	if message.Body != "hello" || message.SenderID != doctor.ID {
		t.Fatalf("unexpected message %+v", message)
	}

	// Patient's conversation list shows one unread.
	recorder = env.doRequest(t, http.MethodGet, "/api/v1/conversations", patientToken, nil)
	requireStatus(t, recorder, http.StatusOK)
	body = decodeEnvelope(t, recorder)
	var list models.ConversationListResponse
	if err := json.Unmarshal(body.Data, &list); err != nil {
		t.Fatalf("failed to decode conversation list: %v", err)
	}
	if list.Total != 1 || list.Conversations[0].Unread != 1 {
		t.Fatalf("unexpected list %+v, want one conversation with one unread", list)
	}

	// Patient reads the history and marks it seen.
	recorder = env.doRequest(t, http.MethodGet, messagesPath, patientToken, nil)
	requireStatus(t, recorder, http.StatusOK)
	body = decodeEnvelope(t, recorder)
	var history models.MessageListResponse
	if err := json.Unmarshal(body.Data, &history); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if history.Total != 1 || len(history.Messages) != 1 {
		t.Fatalf("unexpected history %+v", history)
	}

	seenPath := fmt.Sprintf("/api/v1/conversations/%d/seen", conversation.ID)
	recorder = env.doRequest(t, http.MethodPost, seenPath, patientToken, nil)
	requireStatus(t, recorder, http.StatusOK)
	body = decodeEnvelope(t, recorder)
	var seen struct {
		Marked int64 `json:"marked"`
	}
	if err := json.Unmarshal(body.Data, &seen); err != nil {
		t.Fatalf("failed to decode seen payload: %v", err)
	}
	if seen.Marked != 1 {
		t.Fatalf("marked %d messages, want 1", seen.Marked)
	}

	// A stranger cannot read the history.
	stranger := env.createUser(t, "Sten", enums.ROLE_PATIENT)
	recorder = env.doRequest(t, http.MethodGet, messagesPath, mintToken(t, stranger), nil)
	requireStatus(t, recorder, http.StatusForbidden)
}

func TestCreateConversationRejectsPatientPair(t *testing.T) {
	env := newTestEnv(t)
	patient := env.createUser(t, "Pat", enums.ROLE_PATIENT)
	otherPatient := env.createUser(t, "Omar", enums.ROLE_PATIENT)

	recorder := env.doRequest(t, http.MethodPost, "/api/v1/conversations", mintToken(t, patient),
		models.CreateConversationRequestBody{ParticipantID: otherPatient.ID})
	requireStatus(t, recorder, http.StatusBadRequest)

	// Missing body field fails binding.
	recorder = env.doRequest(t, http.MethodPost, "/api/v1/conversations", mintToken(t, patient),
		map[string]string{})
	requireStatus(t, recorder, http.StatusBadRequest)
}

func TestSendMessageRouteRejections(t *testing.T) {
	env := newTestEnv(t)
	doctor := env.createUser(t, "Dora", enums.ROLE_DOCTOR)
	token := mintToken(t, doctor)

	recorder := env.doRequest(t, http.MethodPost, "/api/v1/conversations/abc/messages", token,
		models.SendMessageRequestBody{Body: "hello"})
	requireStatus(t, recorder, http.StatusBadRequest)

	recorder = env.doRequest(t, http.MethodPost, "/api/v1/conversations/999/messages", token,
		models.SendMessageRequestBody{Body: "hello"})
	requireStatus(t, recorder, http.StatusNotFound)
}

func TestNotificationRoutes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Olga", enums.ROLE_PATIENT)
	stranger := env.createUser(t, "Sten", enums.ROLE_PATIENT)
	ownerToken := mintToken(t, owner)

	rows := []models.Notification{
		{RecipientID: owner.ID, Kind: enums.NOTIFICATION_KIND_MESSAGE_RECEIVED, Title: "Dora", Body: "hello"},
		{RecipientID: owner.ID, Kind: enums.NOTIFICATION_KIND_POST_LIKED, Title: "New like", Body: "Finn liked your post"},
	}
	for i := range rows {
		if err := env.db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("failed to seed notification: %v", err)
		}
	}

	recorder := env.doRequest(t, http.MethodGet, "/api/v1/notifications?filter=unread", ownerToken, nil)
	requireStatus(t, recorder, http.StatusOK)
	var list models.NotificationListResponse
	if err := json.Unmarshal(decodeEnvelope(t, recorder).Data, &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("got %d unread, want 2", list.Total)
	}

	recorder = env.doRequest(t, http.MethodGet, "/api/v1/notifications?filter=bogus", ownerToken, nil)
	requireStatus(t, recorder, http.StatusBadRequest)

	recorder = env.doRequest(t, http.MethodGet, "/api/v1/notifications/unread-count", ownerToken, nil)
	requireStatus(t, recorder, http.StatusOK)
	var count struct {
		Unread int64 `json:"unread"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, recorder).Data, &count); err != nil {
		t.Fatalf("failed to decode count: %v", err)
	}
	if count.Unread != 2 {
		t.Fatalf("unread count %d, want 2", count.Unread)
	}

	// A stranger cannot flip someone else's row.
	readPath := fmt.Sprintf("/api/v1/notifications/%d/read", rows[0].ID)
	recorder = env.doRequest(t, http.MethodPatch, readPath, mintToken(t, stranger), nil)
	requireStatus(t, recorder, http.StatusNotFound)

	recorder = env.doRequest(t, http.MethodPatch, readPath, ownerToken, nil)
	requireStatus(t, recorder, http.StatusOK)

	recorder = env.doRequest(t, http.MethodPatch, "/api/v1/notifications/read-all", ownerToken, nil)
	requireStatus(t, recorder, http.StatusOK)

	recorder = env.doRequest(t, http.MethodGet, "/api/v1/notifications/unread-count", ownerToken, nil)
	if err := json.Unmarshal(decodeEnvelope(t, recorder).Data, &count); err != nil {
		t.Fatalf("failed to decode count: %v", err)
	}
	if count.Unread != 0 {
		t.Fatalf("unread count %d after read-all, want 0", count.Unread)
	}

	deletePath := fmt.Sprintf("/api/v1/notifications/%d", rows[1].ID)
	recorder = env.doRequest(t, http.MethodDelete, deletePath, ownerToken, nil)
	requireStatus(t, recorder, http.StatusOK)
	recorder = env.doRequest(t, http.MethodDelete, deletePath, ownerToken, nil)
	requireStatus(t, recorder, http.StatusNotFound)
}

func TestDeviceRoutes(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Pat", enums.ROLE_PATIENT)
	token := mintToken(t, user)

	recorder := env.doRequest(t, http.MethodPost, "/api/v1/devices", token,
		models.RegisterDeviceRequestBody{Token: "fcm-token", Platform: "android"})
	requireStatus(t, recorder, http.StatusOK)
	body := decodeEnvelope(t, recorder)
	if body.Message != msgs.MsgDeviceRegistered {
		t.Fatalf("got message %q, want %q", body.Message, msgs.MsgDeviceRegistered)
	}

	recorder = env.doRequest(t, http.MethodPost, "/api/v1/devices", token,
		models.RegisterDeviceRequestBody{Token: "other", Platform: "blackberry"})
	requireStatus(t, recorder, http.StatusBadRequest)

	recorder = env.doRequest(t, http.MethodDelete, "/api/v1/devices", token,
		models.UnregisterDeviceRequestBody{Token: "fcm-token"})
	requireStatus(t, recorder, http.StatusOK)

	recorder = env.doRequest(t, http.MethodDelete, "/api/v1/devices", token,
		models.UnregisterDeviceRequestBody{Token: "fcm-token"})
	requireStatus(t, recorder, http.StatusNotFound)
}

func TestEngagementRoutes(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "Ada", enums.ROLE_DOCTOR)
	fan := env.createUser(t, "Finn", enums.ROLE_PATIENT)
	fanToken := mintToken(t, fan)

	post := &models.Post{AuthorID: author.ID, Caption: "checkup tips"}
	if err := env.db.Create(post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	likePath := fmt.Sprintf("/api/v1/posts/%d/like", post.ID)
	recorder := env.doRequest(t, http.MethodPost, likePath, fanToken, nil)
	requireStatus(t, recorder, http.StatusOK)
	var result models.LikeResult
	if err := json.Unmarshal(decodeEnvelope(t, recorder).Data, &result); err != nil {
		t.Fatalf("failed to decode like result: %v", err)
	}
	if !result.Liked || result.LikesCount != 1 {
		t.Fatalf("unexpected like result %+v", result)
	}

	// The author's ledger picked up the like.
	var ledgerRows int64
	env.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND kind = ?", author.ID, enums.NOTIFICATION_KIND_POST_LIKED).
		Count(&ledgerRows)
	if ledgerRows != 1 {
		t.Fatalf("got %d ledger rows, want 1", ledgerRows)
	}

	commentsPath := fmt.Sprintf("/api/v1/posts/%d/comments", post.ID)
	recorder = env.doRequest(t, http.MethodPost, commentsPath, fanToken,
		models.AddCommentRequestBody{Content: "very helpful"})
	requireStatus(t, recorder, http.StatusOK)

	recorder = env.doRequest(t, http.MethodPost, commentsPath, fanToken,
		models.AddCommentRequestBody{Content: ""})
	requireStatus(t, recorder, http.StatusBadRequest)

	recorder = env.doRequest(t, http.MethodGet, commentsPath, fanToken, nil)
	requireStatus(t, recorder, http.StatusOK)
	var comments struct {
		Comments []models.Comment `json:"comments"`
		Total    int64            `json:"total"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, recorder).Data, &comments); err != nil {
		t.Fatalf("failed to decode comments: %v", err)
	}
	if comments.Total != 1 || comments.Comments[0].Content != "very helpful" {
		t.Fatalf("unexpected comments %+v", comments)
	}

	recorder = env.doRequest(t, http.MethodPost, "/api/v1/reels/999/like", fanToken, nil)
	requireStatus(t, recorder, http.StatusNotFound)
}

func TestDedupeConversationsRoute(t *testing.T) {
	env := newTestEnv(t)
	doctor := env.createUser(t, "Dora", enums.ROLE_DOCTOR)
	patient := env.createUser(t, "Pat", enums.ROLE_PATIENT)

	// Seed a duplicate pair directly; the endpoint should collapse it.
	for i := 0; i < 2; i++ {
		conversation := &models.Conversation{IsGroup: false}
		if err := env.db.Create(conversation).Error; err != nil {
			t.Fatalf("failed to seed conversation: %v", err)
		}
		for _, userID := range []uint{doctor.ID, patient.ID} {
			member := &models.ConversationMember{ConversationID: conversation.ID, UserID: userID}
			if err := env.db.Create(member).Error; err != nil {
				t.Fatalf("failed to seed member: %v", err)
			}
		}
	}

	recorder := env.doRequest(t, http.MethodPost, "/api/v1/maintenance/dedupe-conversations",
		mintToken(t, doctor), nil)
	requireStatus(t, recorder, http.StatusOK)
	body := decodeEnvelope(t, recorder)
	if body.Message != msgs.MsgDeduplicationFinished {
		t.Fatalf("got message %q, want %q", body.Message, msgs.MsgDeduplicationFinished)
	}
	var summary models.MergeSummary
	if err := json.Unmarshal(body.Data, &summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary.GroupsMerged != 1 || summary.ConversationsRemoved != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestUploadChatAttachmentWithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Pat", enums.ROLE_PATIENT)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("attachment", "scan.png")
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	if _, err := part.Write([]byte("png bytes")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()

	request := httptest.NewRequest(http.MethodPost, "/api/v1/attachments", &form)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Authorization", "Bearer "+mintToken(t, user))
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, request)

	// No blob store is wired in tests, so the endpoint reports storage
	// unavailable rather than a silent success.
	requireStatus(t, recorder, http.StatusServiceUnavailable)

	// Missing file is the caller's fault.
	request = httptest.NewRequest(http.MethodPost, "/api/v1/attachments", nil)
	request.Header.Set("Authorization", "Bearer "+mintToken(t, user))
	recorder = httptest.NewRecorder()
	env.router.ServeHTTP(recorder, request)
	requireStatus(t, recorder, http.StatusBadRequest)
}
