package services

import (
	"errors"
	"testing"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/enums"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models/socket"
)

func TestInitiateCreatesAnchorAndRingsCallee(t *testing.T) {
	h := newHarness(t)
	doctor := createUser(t, h.db, "Dora", enums.ROLE_DOCTOR)
	patient := createUser(t, h.db, "Pat", enums.ROLE_PATIENT)

	session, err := h.call.Initiate(doctor.ID, patient.ID, nil, enums.CALL_KIND_VIDEO)
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if session.CorrelationID == "" {
		t.Fatalf("session missing correlation id")
	}
	if session.ConversationID == 0 {
		t.Fatalf("session missing anchor conversation")
	}

	// The anchor is a real conversation both users belong to.
	conversation, err := h.chatRepo.GetConversationByID(session.ConversationID)
	if err != nil {
		t.Fatalf("anchor conversation unreadable: %v", err)
	}
	if !conversation.HasMember(doctor.ID) || !conversation.HasMember(patient.ID) {
		t.Fatalf("anchor members %v, want both call parties", conversation.MemberIDs())
	}

	events := h.live.eventsFor(patient.ID, enums.SOCKET_EVENT_CALL_INCOMING)
	if len(events) != 1 {
		t.Fatalf("callee got %d call:incoming events, want 1", len(events))
	}
	payload, ok := events[0].Payload.(socket.CallIncomingPayload)
	if !ok {
		t.Fatalf("payload has type %T, want CallIncomingPayload", events[0].Payload)
	}
	if payload.FromUserID != doctor.ID || !payload.IsVideo || payload.CallerName != "Dora Example" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.CorrelationID != session.CorrelationID {
		t.Fatalf("live correlation %q != session correlation %q", payload.CorrelationID, session.CorrelationID)
	}

	// The push wakes a backgrounded device with the same correlation id.
	pushes := h.push.pushesFor(patient.ID)
	if len(pushes) != 1 {
		t.Fatalf("callee got %d pushes, want 1", len(pushes))
	}
	data := pushes[0].Data
	if data["type"] != "incoming_call" || data["correlationId"] != session.CorrelationID || data["isVideo"] != "true" {
		t.Fatalf("push data incomplete: %v", data)
	}
	if len(h.live.eventsFor(doctor.ID, enums.SOCKET_EVENT_CALL_INCOMING)) != 0 {
		t.Fatalf("caller got their own ring")
	}
}

func TestInitiateRejections(t *testing.T) {
	h := newHarness(t)
	doctor := createUser(t, h.db, "Dora", enums.ROLE_DOCTOR)
	patient := createUser(t, h.db, "Pat", enums.ROLE_PATIENT)
	otherPatient := createUser(t, h.db, "Omar", enums.ROLE_PATIENT)

	if _, err := h.call.Initiate(doctor.ID, patient.ID, nil, "screen"); !errors.Is(err, errs.ErrInvalidParams) {
		t.Fatalf("bad kind: got %v, want ErrInvalidParams", err)
	}
	// The pairing policy applies to calls through the anchor resolution.
	if _, err := h.call.Initiate(patient.ID, otherPatient.ID, nil, enums.CALL_KIND_AUDIO); !errors.Is(err, errs.ErrInvalidParticipants) {
		t.Fatalf("patient-patient call: got %v, want ErrInvalidParticipants", err)
	}
	if len(h.live.events) != 0 || len(h.push.pushes) != 0 {
		t.Fatalf("rejected calls still rang: live=%d push=%d", len(h.live.events), len(h.push.pushes))
	}
}

func TestInitiateReusesProvidedConversation(t *testing.T) {
	h := newHarness(t)
	doctor := createUser(t, h.db, "Dora", enums.ROLE_DOCTOR)
	patient := createUser(t, h.db, "Pat", enums.ROLE_PATIENT)
	existing, err := h.chat.GetOrCreateConversation(doctor.ID, patient.ID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}

	session, err := h.call.Initiate(doctor.ID, patient.ID, &existing.ID, enums.CALL_KIND_AUDIO)
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if session.ConversationID != existing.ID {
		t.Fatalf("anchored to %d, want provided %d", session.ConversationID, existing.ID)
	}

	var conversations int64
	h.db.Model(&models.Conversation{}).Count(&conversations)
	if conversations != 1 {
		t.Fatalf("call created a second conversation, total %d", conversations)
	}
}

func TestAcceptIsLiveOnlyToCaller(t *testing.T) {
	h := newHarness(t)
	doctor := createUser(t, h.db, "Dora", enums.ROLE_DOCTOR)
	patient := createUser(t, h.db, "Pat", enums.ROLE_PATIENT)

	if err := h.call.Accept(patient.ID, doctor.ID); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	events := h.live.eventsFor(doctor.ID, enums.SOCKET_EVENT_CALL_ACCEPTED)
	if len(events) != 1 {
		t.Fatalf("caller got %d call:accepted events, want 1", len(events))
	}
	payload, ok := events[0].Payload.(socket.CallAcceptedPayload)
	if !ok || payload.FromUserID != patient.ID {
		t.Fatalf("unexpected payload %+v", events[0].Payload)
	}
	if len(h.push.pushes) != 0 {
		t.Fatalf("accept queued %d pushes, want 0", len(h.push.pushes))
	}

	if err := h.call.Accept(0, doctor.ID); !errors.Is(err, errs.ErrInvalidParams) {
		t.Fatalf("zero callee: got %v, want ErrInvalidParams", err)
	}
}

func TestEndEmitsBothEventNamesAndOnePush(t *testing.T) {
	h := newHarness(t)
	doctor := createUser(t, h.db, "Dora", enums.ROLE_DOCTOR)
	patient := createUser(t, h.db, "Pat", enums.ROLE_PATIENT)

	if err := h.call.End(doctor.ID, patient.ID); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	ended := h.live.eventsFor(patient.ID, enums.SOCKET_EVENT_CALL_ENDED)
	legacy := h.live.eventsFor(patient.ID, enums.SOCKET_EVENT_CALL_END)
	if len(ended) != 1 || len(legacy) != 1 {
		t.Fatalf("got %d call:ended and %d call:end events, want 1 each", len(ended), len(legacy))
	}

	endedPayload := ended[0].Payload.(socket.CallEndedPayload)
	legacyPayload := legacy[0].Payload.(socket.CallEndedPayload)
	if endedPayload.CorrelationID != legacyPayload.CorrelationID {
		t.Fatalf("event pair carries different correlation ids: %q vs %q",
			endedPayload.CorrelationID, legacyPayload.CorrelationID)
	}

	pushes := h.push.pushesFor(patient.ID)
	if len(pushes) != 1 {
		t.Fatalf("got %d pushes for one hangup, want 1", len(pushes))
	}
	if pushes[0].Data["correlationId"] != endedPayload.CorrelationID {
		t.Fatalf("push correlation %q != live correlation %q",
			pushes[0].Data["correlationId"], endedPayload.CorrelationID)
	}

	if err := h.call.End(doctor.ID, 0); !errors.Is(err, errs.ErrInvalidParams) {
		t.Fatalf("zero other party: got %v, want ErrInvalidParams", err)
	}
}
