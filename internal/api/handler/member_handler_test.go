package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

type stubMemberService struct {
	members   map[int64]domain.Member
	lastInput ports.MemberInput
	createErr error
}

func (s *stubMemberService) ListMembers(context.Context) ([]domain.Member, error) {
	out := []domain.Member{}
	for _, m := range s.members {
		out = append(out, m)
	}
	return out, nil
}

func (s *stubMemberService) GetMember(_ context.Context, id int64) (*domain.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &m, nil
}

func (s *stubMemberService) CreateMember(_ context.Context, in ports.MemberInput) (*domain.Member, error) {
	s.lastInput = in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.Member{ID: 5, Name: in.Name, Email: in.Email, JoinedDate: time.Now().UTC(), Role: domain.RoleMember}, nil
}

func (s *stubMemberService) UpdateMember(_ context.Context, id int64, in ports.MemberInput) error {
	s.lastInput = in
	if _, ok := s.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (s *stubMemberService) DeleteMember(_ context.Context, id int64) error {
	if _, ok := s.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	return nil
}

func TestMemberHandler_Create(t *testing.T) {
	svc := &stubMemberService{}
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/member", `{"name":"Grace","email":"grace@example.com"}`), rec)

	if err := NewMemberHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastInput.JoinedDate != nil {
		t.Fatalf("omitted joined_date should be nil")
	}
	if !strings.Contains(rec.Body.String(), `"id":5`) {
		t.Fatalf("id missing from body: %s", rec.Body.String())
	}
}

func TestMemberHandler_Create_JoinedDate(t *testing.T) {
	svc := &stubMemberService{}
	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPost, "/member", `{"name":"G","email":"g@example.com","joined_date":"2021-03-04T05:06:07Z"}`), httptest.NewRecorder())

	if err := NewMemberHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	want := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	if svc.lastInput.JoinedDate == nil || !svc.lastInput.JoinedDate.Equal(want) {
		t.Fatalf("joined_date = %v, want %v", svc.lastInput.JoinedDate, want)
	}
}

func TestMemberHandler_Create_BadEmail(t *testing.T) {
	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPost, "/member", `{"name":"G","email":"not-an-email"}`), httptest.NewRecorder())

	err := NewMemberHandler(&stubMemberService{}).Create(c)
	if got := httpStatus(t, err); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
}

func TestMemberHandler_Create_Duplicate(t *testing.T) {
	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPost, "/member", `{"name":"G","email":"g@example.com"}`), httptest.NewRecorder())

	err := NewMemberHandler(&stubMemberService{createErr: domain.ErrEmailTaken}).Create(c)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestMemberHandler_UpdateAndGet(t *testing.T) {
	svc := &stubMemberService{members: map[int64]domain.Member{
		2: {ID: 2, Name: "old", Email: "old@example.com", PasswordHash: "secret-hash"},
	}}
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/member/2", `{"name":"new","email":"new@example.com"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := NewMemberHandler(svc).Update(c); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/members/2", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := NewMemberHandler(svc).Get(c); err != nil {
		t.Fatalf("get error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("credentials leaked: %s", rec.Body.String())
	}
}

func TestMemberHandler_List(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/members_all", nil), rec)

	if err := NewMemberHandler(&stubMemberService{}).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}
