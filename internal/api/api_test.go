package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/impoot/impoot/internal/auth"
	"github.com/impoot/impoot/internal/briefing"
	"github.com/impoot/impoot/internal/media"
	"github.com/impoot/impoot/internal/models"
	"github.com/impoot/impoot/internal/progress"
	"github.com/impoot/impoot/internal/settlement"
	"github.com/impoot/impoot/internal/storage"
)

const testPublicURL = "http://impoot.test"

type fakeGenerator struct {
	text string
	err  error
}

func (f fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

type testEnv struct {
	t      *testing.T
	server *Server
	store  *storage.Store
	issuer *auth.Issuer
}

func newTestEnv(t *testing.T, gen briefing.Generator) *testEnv {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bucket, err := media.New(filepath.Join(t.TempDir(), "media"), testPublicURL, 1<<20)
	if err != nil {
		t.Fatalf("media: %v", err)
	}
	issuer := auth.NewIssuer("test-secret-0123456789", time.Hour, 24*time.Hour)

	server := New(Options{
		Store:    store,
		Issuer:   issuer,
		Media:    bucket,
		Briefing: gen,
		AdminEmails: func(email string) bool {
			return email == "boss@impoot.test"
		},
	})
	return &testEnv{t: t, server: server, store: store, issuer: issuer}
}

// user creates an account directly in the store and returns it with an access token.
func (e *testEnv) user(email string, roles ...string) (*models.User, string) {
	e.t.Helper()
	u, err := e.store.CreateUser(context.Background(), &models.User{Email: email, Name: strings.Split(email, "@")[0], Roles: roles}, "x")
	if err != nil {
		e.t.Fatalf("create user: %v", err)
	}
	session, err := e.issuer.Issue(u.ID)
	if err != nil {
		e.t.Fatalf("issue: %v", err)
	}
	return u, session.AccessToken
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func (e *testEnv) createItem(token string, req models.ItemCreate) *models.Item {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/items", token, req)
	expectStatus(e.t, rec, http.StatusCreated)
	var item models.Item
	decodeBody(e.t, rec, &item)
	return &item
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "OK" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestSignUpLoginRefresh(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/auth/signup", "", signUpRequest{Email: "Boss@impoot.test", Password: "secret1", Name: "대표"})
	expectStatus(t, rec, http.StatusCreated)
	var signedUp sessionResponse
	decodeBody(t, rec, &signedUp)
	if !signedUp.User.IsAdmin() {
		t.Fatalf("expected listed admin email to get super_admin, got %v", signedUp.User.Roles)
	}
	if !strings.HasPrefix(signedUp.User.Avatar, avatarURL) {
		t.Fatalf("expected default avatar, got %q", signedUp.User.Avatar)
	}

	rec = env.do(http.MethodPost, "/api/auth/signup", "", signUpRequest{Email: "boss@impoot.test", Password: "secret1"})
	expectStatus(t, rec, http.StatusConflict)

	rec = env.do(http.MethodPost, "/api/auth/signup", "", signUpRequest{Email: "short@impoot.test", Password: "12345"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(http.MethodPost, "/api/auth/login", "", loginRequest{Email: "boss@impoot.test", Password: "wrong-pass"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = env.do(http.MethodPost, "/api/auth/login", "", loginRequest{Email: "boss@impoot.test", Password: "secret1"})
	expectStatus(t, rec, http.StatusOK)
	var login sessionResponse
	decodeBody(t, rec, &login)

	rec = env.do(http.MethodGet, "/api/me", login.Session.AccessToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var me models.User
	decodeBody(t, rec, &me)
	if me.Email != "boss@impoot.test" || me.Name != "대표" {
		t.Fatalf("unexpected current user %+v", me)
	}

	rec = env.do(http.MethodPost, "/api/auth/refresh", "", refreshRequest{RefreshToken: login.Session.RefreshToken})
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodPost, "/api/auth/refresh", "", refreshRequest{RefreshToken: login.Session.AccessToken})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = env.do(http.MethodPost, "/api/auth/logout", login.Session.AccessToken, nil)
	expectStatus(t, rec, http.StatusNoContent)
}

func TestLoginPromotesListedAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := env.store.CreateUser(context.Background(), &models.User{Email: "boss@impoot.test", Name: "boss"}, hash); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec := env.do(http.MethodPost, "/api/auth/login", "", loginRequest{Email: "boss@impoot.test", Password: "secret1"})
	expectStatus(t, rec, http.StatusOK)
	var login sessionResponse
	decodeBody(t, rec, &login)
	if !login.User.IsAdmin() {
		t.Fatalf("expected promotion, got %v", login.User.Roles)
	}
}

func TestAccessControl(t *testing.T) {
	env := newTestEnv(t, nil)
	_, member := env.user("member@impoot.test")
	_, partner := env.user("host@impoot.test", models.RoleCrew)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"anonymous me", http.MethodGet, "/api/me", "", nil, http.StatusUnauthorized},
		{"garbage token browses anonymously", http.MethodGet, "/api/items", "not-a-token", nil, http.StatusOK},
		{"garbage token home", http.MethodGet, "/api/home", "not-a-token", nil, http.StatusOK},
		{"garbage token me", http.MethodGet, "/api/me", "not-a-token", nil, http.StatusUnauthorized},
		{"member admin route", http.MethodGet, "/api/admin/users", member, nil, http.StatusForbidden},
		{"member creates item", http.MethodPost, "/api/items", member, models.ItemCreate{CategoryType: models.CategoryCrew, Title: "x"}, http.StatusForbidden},
		{"partner wrong category", http.MethodPost, "/api/items", partner, models.ItemCreate{CategoryType: models.CategoryLecture, Title: "x"}, http.StatusForbidden},
		{"partner admin route", http.MethodGet, "/api/admin/settlement", partner, nil, http.StatusForbidden},
		{"anonymous browse", http.MethodGet, "/api/items", "", nil, http.StatusOK},
		{"unknown category", http.MethodGet, "/api/items?category=golf", "", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, env.do(tt.method, tt.path, tt.token, tt.body), tt.want)
		})
	}
}

func TestApplicationFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	member, memberToken := env.user("member@impoot.test")
	_, hostToken := env.user("host@impoot.test", models.RoleNetworking)
	_, otherHostToken := env.user("other@impoot.test", models.RoleNetworking)

	item := env.createItem(hostToken, models.ItemCreate{
		CategoryType: models.CategoryNetworking,
		Title:        "판교 투자 네트워킹",
		Price:        "30,000원",
	})
	if item.Status != models.ItemOpen || item.AuthorID == "" {
		t.Fatalf("unexpected item %+v", item)
	}
	itemPath := "/api/items/" + itoa(item.ID)

	rec := env.do(http.MethodPost, itemPath+"/apply", memberToken, models.ApplicationCreate{UserPhone: "010-1111-2222"})
	expectStatus(t, rec, http.StatusCreated)
	expectStatus(t, env.do(http.MethodPost, itemPath+"/apply", memberToken, nil), http.StatusConflict)

	rec = env.do(http.MethodGet, "/api/me/applies", memberToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var applies []int64
	decodeBody(t, rec, &applies)
	if len(applies) != 1 || applies[0] != item.ID {
		t.Fatalf("unexpected applies %v", applies)
	}

	expectStatus(t, env.do(http.MethodGet, itemPath+"/applicants", otherHostToken, nil), http.StatusForbidden)
	rec = env.do(http.MethodGet, itemPath+"/applicants", hostToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var applicants []models.Application
	decodeBody(t, rec, &applicants)
	if len(applicants) != 1 || applicants[0].UserName != "member" || applicants[0].UserPhone != "010-1111-2222" {
		t.Fatalf("unexpected applicants %+v", applicants)
	}

	statusPath := itemPath + "/applicants/" + member.ID
	expectStatus(t, env.do(http.MethodPut, statusPath, hostToken, models.StatusChange{Status: "teleported"}), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodPut, statusPath, hostToken, models.StatusChange{Status: models.StatusCheckedIn}), http.StatusUnprocessableEntity)
	expectStatus(t, env.do(http.MethodPut, statusPath, hostToken, models.StatusChange{Status: models.StatusConfirmed}), http.StatusOK)

	rec = env.do(http.MethodGet, "/api/me/notifications", memberToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var notes []models.UserNotification
	decodeBody(t, rec, &notes)
	if len(notes) != 1 || !strings.Contains(notes[0].Message, "판교 투자 네트워킹") {
		t.Fatalf("expected confirmation notice, got %+v", notes)
	}
	expectStatus(t, env.do(http.MethodPost, "/api/me/notifications/"+itoa(notes[0].ID)+"/read", memberToken, nil), http.StatusNoContent)

	rec = env.do(http.MethodPost, itemPath+"/cancel", memberToken, models.ApplicationCancel{Reason: "일정 변경", Account: "신한 110"})
	expectStatus(t, rec, http.StatusOK)
	var cancelled models.Application
	decodeBody(t, rec, &cancelled)
	if cancelled.Status != models.StatusRefundRequested || cancelled.RefundAccount != "신한 110" {
		t.Fatalf("unexpected cancellation %+v", cancelled)
	}
	expectStatus(t, env.do(http.MethodPost, itemPath+"/cancel", memberToken, models.ApplicationCancel{}), http.StatusUnprocessableEntity)
}

func TestApplyRequiresOpenItem(t *testing.T) {
	env := newTestEnv(t, nil)
	_, memberToken := env.user("member@impoot.test")
	_, hostToken := env.user("host@impoot.test", models.RoleLecture)

	item := env.createItem(hostToken, models.ItemCreate{CategoryType: models.CategoryLecture, Title: "경매 기초"})
	closed := models.ItemClosed
	expectStatus(t, env.do(http.MethodPatch, "/api/items/"+itoa(item.ID), hostToken, models.ItemUpdate{Status: &closed}), http.StatusOK)

	expectStatus(t, env.do(http.MethodPost, "/api/items/"+itoa(item.ID)+"/apply", memberToken, nil), http.StatusUnprocessableEntity)
	expectStatus(t, env.do(http.MethodPost, "/api/items/9999/apply", memberToken, nil), http.StatusNotFound)
}

func TestSettlementBlocksNewItems(t *testing.T) {
	env := newTestEnv(t, nil)
	_, hostToken := env.user("host@impoot.test", models.RoleNetworking, models.RoleMinddate)
	_, adminToken := env.user("admin@impoot.test", models.RoleSuperAdmin)

	item := env.createItem(hostToken, models.ItemCreate{
		CategoryType: models.CategoryNetworking,
		Title:        "강남 네트워킹",
		Price:        "30,000원",
		Details:      models.Details{CurrentParticipants: 2, MaxParticipants: 10},
	})
	env.createItem(hostToken, models.ItemCreate{
		CategoryType: models.CategoryMinddate,
		Title:        "마인드데이트",
		Price:        "50,000원",
		Details:      models.Details{CurrentParticipants: 4},
	})

	ended := models.ItemEnded
	expectStatus(t, env.do(http.MethodPatch, "/api/items/"+itoa(item.ID), hostToken, models.ItemUpdate{Status: &ended}), http.StatusOK)

	completed := models.SettlementCompleted
	expectStatus(t, env.do(http.MethodPatch, "/api/items/"+itoa(item.ID), hostToken,
		models.ItemUpdate{SettlementStatus: &completed}), http.StatusForbidden)

	rec := env.do(http.MethodGet, "/api/partner/settlement", hostToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var summary settlement.Summary
	decodeBody(t, rec, &summary)
	if summary.Rate != models.DefaultCommissionRate || summary.FeesToPay != 9000 || !summary.BlockedByFee {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.TotalSales != 60000 || summary.PayoutToReceive != 0 {
		t.Fatalf("unexpected totals %+v", summary)
	}

	expectStatus(t, env.do(http.MethodPost, "/api/items", hostToken,
		models.ItemCreate{CategoryType: models.CategoryNetworking, Title: "두번째 모임"}), http.StatusUnprocessableEntity)

	// Reopening the ended item must not lift the block.
	for _, status := range []string{models.ItemOpen, models.ItemClosed} {
		expectStatus(t, env.do(http.MethodPatch, "/api/items/"+itoa(item.ID), hostToken,
			models.ItemUpdate{Status: &status}), http.StatusUnprocessableEntity)
	}
	expectStatus(t, env.do(http.MethodPatch, "/api/items/"+itoa(item.ID), hostToken,
		models.ItemUpdate{Status: &ended}), http.StatusOK)
	expectStatus(t, env.do(http.MethodPost, "/api/items", hostToken,
		models.ItemCreate{CategoryType: models.CategoryNetworking, Title: "두번째 모임"}), http.StatusUnprocessableEntity)

	rec = env.do(http.MethodGet, "/api/admin/settlement", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var overview overviewResponse
	decodeBody(t, rec, &overview)
	if len(overview.Lines) != 2 {
		t.Fatalf("expected both items with sales, got %+v", overview.Lines)
	}

	expectStatus(t, env.do(http.MethodPost, "/api/admin/items/"+itoa(item.ID)+"/settle", adminToken, nil), http.StatusOK)
	env.createItem(hostToken, models.ItemCreate{CategoryType: models.CategoryNetworking, Title: "두번째 모임"})

	rec = env.do(http.MethodGet, "/api/me/notifications", hostToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var notes []models.UserNotification
	decodeBody(t, rec, &notes)
	if len(notes) != 1 || notes[0].Title != "정산 완료" {
		t.Fatalf("expected settlement notice, got %+v", notes)
	}

	open := models.ItemOpen
	expectStatus(t, env.do(http.MethodPatch, "/api/items/"+itoa(item.ID), hostToken,
		models.ItemUpdate{Status: &open}), http.StatusOK)
}

func TestItemPriceLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	_, hostToken := env.user("host@impoot.test", models.RoleNetworking)

	expectStatus(t, env.do(http.MethodPost, "/api/items", hostToken, models.ItemCreate{
		CategoryType: models.CategoryNetworking,
		Title:        "비싼 모임",
		Price:        "99,999,999,999,999,999,999원",
	}), http.StatusBadRequest)

	item := env.createItem(hostToken, models.ItemCreate{
		CategoryType: models.CategoryNetworking,
		Title:        "강남 네트워킹",
		Price:        "30,000원",
	})
	huge := "10,000,000,001원"
	expectStatus(t, env.do(http.MethodPatch, "/api/items/"+itoa(item.ID), hostToken,
		models.ItemUpdate{Price: &huge}), http.StatusBadRequest)
	fine := "35,000원"
	expectStatus(t, env.do(http.MethodPatch, "/api/items/"+itoa(item.ID), hostToken,
		models.ItemUpdate{Price: &fine}), http.StatusOK)
}

func TestCrewReportUnlock(t *testing.T) {
	env := newTestEnv(t, nil)
	_, memberToken := env.user("member@impoot.test")
	_, hostToken := env.user("host@impoot.test", models.RoleCrew)

	item := env.createItem(hostToken, models.ItemCreate{
		CategoryType: models.CategoryCrew,
		Title:        "성수 임장 리포트",
		Details:      models.Details{ReportContent: "성수동 시세 분석"},
	})
	path := "/api/items/" + itoa(item.ID)

	getReport := func(token string) string {
		t.Helper()
		rec := env.do(http.MethodGet, path, token, nil)
		expectStatus(t, rec, http.StatusOK)
		var got models.Item
		decodeBody(t, rec, &got)
		return got.Details.ReportContent
	}

	if got := getReport(""); got != "" {
		t.Fatalf("anonymous viewers should not see the report, got %q", got)
	}
	if got := getReport(memberToken); got != "" {
		t.Fatalf("members should not see the report before unlocking, got %q", got)
	}
	if got := getReport(hostToken); got == "" {
		t.Fatal("the host should see the report")
	}

	expectStatus(t, env.do(http.MethodPost, path+"/unlock", memberToken, nil), http.StatusCreated)
	expectStatus(t, env.do(http.MethodPost, path+"/unlock", memberToken, nil), http.StatusConflict)
	if got := getReport(memberToken); got != "성수동 시세 분석" {
		t.Fatalf("expected unlocked report, got %q", got)
	}

	stored, _ := env.store.GetItem(context.Background(), item.ID)
	if stored.Views != 4 {
		t.Fatalf("expected every detail view to count, got %d", stored.Views)
	}
}

func TestProgressFromActivity(t *testing.T) {
	env := newTestEnv(t, nil)
	_, memberToken := env.user("member@impoot.test")
	_, hostToken := env.user("host@impoot.test", models.RoleNetworking)
	item := env.createItem(hostToken, models.ItemCreate{CategoryType: models.CategoryNetworking, Title: "모임"})
	path := "/api/items/" + itoa(item.ID)

	expectStatus(t, env.do(http.MethodPost, path+"/like", memberToken, nil), http.StatusOK)
	expectStatus(t, env.do(http.MethodPost, path+"/apply", memberToken, nil), http.StatusCreated)

	rec := env.do(http.MethodGet, "/api/me/progress", memberToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var p progress.Progress
	decodeBody(t, rec, &p)
	if p.XP != 60 || p.Level != 1 || p.Percent != 20 {
		t.Fatalf("unexpected progress %+v", p)
	}

	rec = env.do(http.MethodPost, path+"/like", memberToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var likes []int64
	decodeBody(t, rec, &likes)
	if len(likes) != 0 {
		t.Fatalf("expected second like to toggle off, got %v", likes)
	}
}

func TestReviewFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	member, memberToken := env.user("member@impoot.test")
	_, otherToken := env.user("other@impoot.test")
	_, hostToken := env.user("host@impoot.test", models.RoleLecture)

	item := env.createItem(hostToken, models.ItemCreate{CategoryType: models.CategoryLecture, Title: "세금 강의"})
	expectStatus(t, env.do(http.MethodPost, "/api/items/"+itoa(item.ID)+"/apply", memberToken, nil), http.StatusCreated)
	if _, err := env.store.UpdateApplicationStatus(ctx, member.ID, item.ID, models.StatusPaid); err != nil {
		t.Fatalf("pay: %v", err)
	}
	ended := models.ItemEnded
	if err := env.store.UpdateItem(ctx, item.ID, &models.ItemUpdate{Status: &ended}); err != nil {
		t.Fatalf("end: %v", err)
	}

	rec := env.do(http.MethodGet, "/api/me/reviewable", memberToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var reviewable []models.Item
	decodeBody(t, rec, &reviewable)
	if len(reviewable) != 1 {
		t.Fatalf("expected one reviewable item, got %d", len(reviewable))
	}

	expectStatus(t, env.do(http.MethodPost, "/api/reviews", memberToken,
		models.ReviewCreate{ItemID: item.ID, Text: "좋아요", Rating: 5}), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodPost, "/api/reviews", memberToken,
		models.ReviewCreate{ItemID: item.ID, Text: "세금 구조를 이해하게 되었어요", Rating: 6}), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodPost, "/api/reviews", otherToken,
		models.ReviewCreate{ItemID: item.ID, Text: "세금 구조를 이해하게 되었어요", Rating: 5}), http.StatusUnprocessableEntity)

	rec = env.do(http.MethodPost, "/api/reviews", memberToken,
		models.ReviewCreate{ItemID: item.ID, Text: "세금 구조를 이해하게 되었어요", Rating: 5})
	expectStatus(t, rec, http.StatusCreated)
	var review models.Review
	decodeBody(t, rec, &review)

	rating := 4
	reviewPath := "/api/reviews/" + itoa(review.ID)
	expectStatus(t, env.do(http.MethodPatch, reviewPath, otherToken, models.ReviewUpdate{Rating: &rating}), http.StatusForbidden)
	rec = env.do(http.MethodPatch, reviewPath, memberToken, models.ReviewUpdate{Rating: &rating})
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodGet, "/api/items/"+itoa(item.ID)+"/reviews", "", nil)
	expectStatus(t, rec, http.StatusOK)
	var reviews []models.Review
	decodeBody(t, rec, &reviews)
	if len(reviews) != 1 || reviews[0].Rating != 4 {
		t.Fatalf("unexpected reviews %+v", reviews)
	}

	rec = env.do(http.MethodGet, "/api/reviews?category=lecture", "", nil)
	expectStatus(t, rec, http.StatusOK)
	decodeBody(t, rec, &reviews)
	if len(reviews) != 1 {
		t.Fatalf("expected one lecture review, got %d", len(reviews))
	}
	expectStatus(t, env.do(http.MethodGet, "/api/reviews", "", nil), http.StatusBadRequest)

	expectStatus(t, env.do(http.MethodDelete, reviewPath, memberToken, nil), http.StatusNoContent)
	expectStatus(t, env.do(http.MethodDelete, reviewPath, memberToken, nil), http.StatusNotFound)
}

func TestProfileUpdate(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.user("member@impoot.test")

	bad := "02-123-4567"
	expectStatus(t, env.do(http.MethodPatch, "/api/me", token, models.ProfileUpdate{Phone: &bad}), http.StatusBadRequest)

	phone, birth, done := "01012345678", "900101", true
	rec := env.do(http.MethodPatch, "/api/me", token, models.ProfileUpdate{
		Phone: &phone, Birthdate: &birth, IsProfileComplete: &done, Interests: []string{"경매", "청약"},
	})
	expectStatus(t, rec, http.StatusOK)
	var u models.User
	decodeBody(t, rec, &u)
	if u.Phone != phone || u.Birthdate != birth || !u.IsProfileComplete || len(u.Interests) != 2 {
		t.Fatalf("profile not updated: %+v", u)
	}
}

func TestAdminHomeDesign(t *testing.T) {
	env := newTestEnv(t, nil)
	_, adminToken := env.user("admin@impoot.test", models.RoleSuperAdmin)

	expectStatus(t, env.do(http.MethodPost, "/api/admin/slides", adminToken,
		models.Slide{Title: "봄 시즌", Desc: "새 모임", SortOrder: 1, IsActive: true}), http.StatusCreated)
	expectStatus(t, env.do(http.MethodPost, "/api/admin/notifications", adminToken,
		models.Notification{Message: "신규 크루 모집", IsActive: true}), http.StatusCreated)
	expectStatus(t, env.do(http.MethodPost, "/api/admin/notifications", adminToken,
		models.Notification{}), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodPut, "/api/admin/headers/crew", adminToken,
		models.CategoryHeader{Title: "임장 크루", Description: "함께 걸어요"}), http.StatusOK)
	expectStatus(t, env.do(http.MethodPut, "/api/admin/detail-images/crew", adminToken,
		imageRequest{ImageURL: "https://cdn.test/crew.png"}), http.StatusOK)
	expectStatus(t, env.do(http.MethodPut, "/api/admin/settings/tagline", adminToken,
		valueRequest{Value: "함께 걷는 임풋"}), http.StatusOK)
	expectStatus(t, env.do(http.MethodPut, "/api/admin/settings/commission_rate", adminToken,
		valueRequest{Value: "99"}), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodGet, "/api/admin/settings/unknown", adminToken, nil), http.StatusNotFound)

	rec := env.do(http.MethodGet, "/api/home", "", nil)
	expectStatus(t, rec, http.StatusOK)
	var home models.GlobalData
	decodeBody(t, rec, &home)
	if len(home.Slides) != 1 || home.Slides[0].Desc != "새 모임" {
		t.Fatalf("unexpected slides %+v", home.Slides)
	}
	if len(home.Notifications) != 1 || home.Tagline != "함께 걷는 임풋" {
		t.Fatalf("unexpected home %+v", home)
	}
	if home.Headers["crew"].Title != "임장 크루" || home.DetailImages["crew"] != "https://cdn.test/crew.png" {
		t.Fatalf("unexpected design %+v %+v", home.Headers, home.DetailImages)
	}

	expectStatus(t, env.do(http.MethodPut, "/api/admin/commission", adminToken, commissionRequest{Rate: 150}), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodPut, "/api/admin/commission", adminToken, commissionRequest{Rate: 20}), http.StatusOK)
	rec = env.do(http.MethodGet, "/api/admin/commission", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var rate commissionRequest
	decodeBody(t, rec, &rate)
	if rate.Rate != 20 {
		t.Fatalf("expected 20, got %d", rate.Rate)
	}
}

func TestAdminUsers(t *testing.T) {
	env := newTestEnv(t, nil)
	admin, adminToken := env.user("admin@impoot.test", models.RoleSuperAdmin)
	member, memberToken := env.user("member@impoot.test")

	path := "/api/admin/users/" + member.ID
	expectStatus(t, env.do(http.MethodPut, path+"/roles", adminToken, rolesRequest{Roles: []string{"ceo"}}), http.StatusBadRequest)

	rec := env.do(http.MethodPut, path+"/roles", adminToken,
		rolesRequest{Roles: []string{models.RoleCrew, models.RoleCrew, models.RoleLecture}})
	expectStatus(t, rec, http.StatusOK)
	var updated models.User
	decodeBody(t, rec, &updated)
	if len(updated.Roles) != 2 || !updated.CanHost(models.CategoryCrew) {
		t.Fatalf("unexpected roles %v", updated.Roles)
	}

	rec = env.do(http.MethodGet, "/api/admin/users", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var users []models.User
	decodeBody(t, rec, &users)
	if len(users) != 2 {
		t.Fatalf("expected two users, got %d", len(users))
	}

	expectStatus(t, env.do(http.MethodDelete, "/api/admin/users/"+admin.ID, adminToken, nil), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodDelete, path, adminToken, nil), http.StatusNoContent)
	expectStatus(t, env.do(http.MethodPut, path+"/roles", adminToken, rolesRequest{}), http.StatusNotFound)

	expectStatus(t, env.do(http.MethodGet, "/api/me", memberToken, nil), http.StatusUnauthorized)
	expectStatus(t, env.do(http.MethodGet, "/api/items", memberToken, nil), http.StatusOK)
}

func TestGenerateBriefings(t *testing.T) {
	tests := []struct {
		name  string
		gen   briefing.Generator
		want  int
		lines int
	}{
		{"no generator", nil, http.StatusServiceUnavailable, 0},
		{"not configured", fakeGenerator{err: briefing.ErrNotConfigured}, http.StatusServiceUnavailable, 0},
		{"upstream failure", fakeGenerator{err: errors.New("boom")}, http.StatusBadGateway, 0},
		{"no usable lines", fakeGenerator{text: "오늘은 뉴스가 없습니다"}, http.StatusBadGateway, 0},
		{"success", fakeGenerator{text: "금리: 기준금리 동결\n잡담\n전세: 상승 전환\n청약: 경쟁률 상승\n공급: 확대"}, http.StatusOK, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.gen)
			_, adminToken := env.user("admin@impoot.test", models.RoleSuperAdmin)

			rec := env.do(http.MethodPost, "/api/admin/briefings/generate", adminToken, nil)
			expectStatus(t, rec, tt.want)
			if tt.want != http.StatusOK {
				return
			}
			var lines []models.Briefing
			decodeBody(t, rec, &lines)
			if len(lines) != tt.lines || lines[0].Highlight != "금리" {
				t.Fatalf("unexpected lines %+v", lines)
			}

			rec = env.do(http.MethodGet, "/api/home", "", nil)
			var home models.GlobalData
			decodeBody(t, rec, &home)
			if len(home.Briefing) != tt.lines {
				t.Fatalf("expected briefing on home, got %+v", home.Briefing)
			}
		})
	}
}

func TestReplaceBriefings(t *testing.T) {
	env := newTestEnv(t, nil)
	_, adminToken := env.user("admin@impoot.test", models.RoleSuperAdmin)

	rec := env.do(http.MethodPut, "/api/admin/briefings", adminToken, briefingsRequest{Lines: []models.Briefing{
		{Text: "재건축: 규제 완화", Highlight: "재건축"},
	}})
	expectStatus(t, rec, http.StatusOK)
	var lines []models.Briefing
	decodeBody(t, rec, &lines)
	if len(lines) != 1 || lines[0].ID == 0 {
		t.Fatalf("unexpected lines %+v", lines)
	}
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.user("member@impoot.test")

	upload := func(filename string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		mw.WriteField("bucket", "avatars")
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		fw.Write(content)
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)
		return rec
	}

	expectStatus(t, upload("virus.exe", []byte("MZ")), http.StatusBadRequest)

	rec := upload("me.png", []byte("fake png bytes"))
	expectStatus(t, rec, http.StatusCreated)
	var out map[string]string
	decodeBody(t, rec, &out)
	prefix := testPublicURL + media.URLPrefix + "/avatars/"
	if !strings.HasPrefix(out["url"], prefix) || !strings.HasSuffix(out["url"], ".png") {
		t.Fatalf("unexpected url %q", out["url"])
	}

	rec = env.do(http.MethodGet, strings.TrimPrefix(out["url"], testPublicURL), "", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "fake png bytes" {
		t.Fatalf("unexpected file content %q", rec.Body.String())
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
