package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/scribehub/identity-api/internal/core/domain"
)

type stubAuditRepo struct {
	lastEmail string
	lastLimit int
	events    []domain.AuditEvent
}

func (r *stubAuditRepo) Insert(_ context.Context, _ *domain.AuditEvent) error {
	panic("not used")
}

func (r *stubAuditRepo) ListByEmail(_ context.Context, email string, limit int) ([]domain.AuditEvent, error) {
	r.lastEmail = email
	r.lastLimit = limit
	return r.events, nil
}

func TestAuditHandler_List_LimitDefaultsAndCaps(t *testing.T) {
	for query, want := range map[string]int{
		"":           defaultAuditLimit,
		"limit=-3":   defaultAuditLimit,
		"limit=abc":  defaultAuditLimit,
		"limit=200":  200,
		"limit=500":  maxAuditLimit,
		"limit=9999": maxAuditLimit,
	} {
		repo := &stubAuditRepo{}
		h := NewAuditHandler(repo)

		c, rec := newTestContext(t, http.MethodGet, "/api/audit?email=alice@example.com&"+query, "")
		if err := h.List(c); err != nil {
			t.Fatalf("query %q: handler error: %v", query, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("query %q: expected 200, got %d", query, rec.Code)
		}
		if repo.lastLimit != want {
			t.Fatalf("query %q: expected limit %d, got %d", query, want, repo.lastLimit)
		}
		if repo.lastEmail != "alice@example.com" {
			t.Fatalf("query %q: unexpected email %q", query, repo.lastEmail)
		}
	}
}

func TestAuditHandler_List_EmailRequired(t *testing.T) {
	h := NewAuditHandler(&stubAuditRepo{})

	c, _ := newTestContext(t, http.MethodGet, "/api/audit", "")
	err := h.List(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Fields[0].Field != "email" {
		t.Fatalf("unexpected field errors: %+v", ve.Fields)
	}
}

func TestAuditHandler_List_RendersEvents(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubAuditRepo{events: []domain.AuditEvent{
		{Email: "alice@example.com", Action: domain.AuditLogin, TraceID: "t1", Timestamp: ts},
	}}
	h := NewAuditHandler(repo)

	c, rec := newTestContext(t, http.MethodGet, "/api/audit?email=alice@example.com", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var out []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out) != 1 || out[0]["action"] != domain.AuditLogin || out[0]["trace_id"] != "t1" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if out[0]["timestamp"] != "2026-08-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp: %q", out[0]["timestamp"])
	}
}
