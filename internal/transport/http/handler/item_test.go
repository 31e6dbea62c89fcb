package handler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeswinthayil/Lostandfound/internal/domain"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
	"github.com/jeswinthayil/Lostandfound/internal/token"
	"github.com/jeswinthayil/Lostandfound/internal/transport/http/handler"
	"github.com/jeswinthayil/Lostandfound/internal/transport/http/middleware"
	"github.com/jeswinthayil/Lostandfound/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeItemUsecase implements the unexported itemUsecaser interface via method matching.
type fakeItemUsecase struct {
	postItem      func(ctx context.Context, poster string, input usecase.PostItemInput) (*domain.Item, error)
	recordContact func(ctx context.Context, itemID, requester, message string) error
	markClaimed   func(ctx context.Context, itemID, claimant string) error
	list          func(ctx context.Context, input repository.ListItemsInput) ([]*domain.Item, error)
	listMine      func(ctx context.Context, poster string) ([]*domain.Item, error)
	get           func(ctx context.Context, id string) (*domain.Item, error)
	search        func(ctx context.Context, keyword string) ([]*domain.Item, error)
	deleteOwned   func(ctx context.Context, id, poster string) error
}

func (f *fakeItemUsecase) PostItem(ctx context.Context, poster string, input usecase.PostItemInput) (*domain.Item, error) {
	return f.postItem(ctx, poster, input)
}

func (f *fakeItemUsecase) RecordContact(ctx context.Context, itemID, requester, message string) error {
	return f.recordContact(ctx, itemID, requester, message)
}

func (f *fakeItemUsecase) MarkClaimed(ctx context.Context, itemID, claimant string) error {
	return f.markClaimed(ctx, itemID, claimant)
}

func (f *fakeItemUsecase) List(ctx context.Context, input repository.ListItemsInput) ([]*domain.Item, error) {
	return f.list(ctx, input)
}

func (f *fakeItemUsecase) ListMine(ctx context.Context, poster string) ([]*domain.Item, error) {
	return f.listMine(ctx, poster)
}

func (f *fakeItemUsecase) Get(ctx context.Context, id string) (*domain.Item, error) {
	return f.get(ctx, id)
}

func (f *fakeItemUsecase) Search(ctx context.Context, keyword string) ([]*domain.Item, error) {
	return f.search(ctx, keyword)
}

func (f *fakeItemUsecase) DeleteOwned(ctx context.Context, id, poster string) error {
	return f.deleteOwned(ctx, id, poster)
}

type fakeRevocationRepo struct{}

func (r *fakeRevocationRepo) Revoke(context.Context, string, time.Time) error { return nil }
func (r *fakeRevocationRepo) IsRevoked(context.Context, string) (bool, error) { return false, nil }
func (r *fakeRevocationRepo) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

const itemTestKey = "item-handler-test-secret-32chars!"

// newItemEngine wires the handler behind the real Auth middleware so
// requests carry an authentic caller identity.
func newItemEngine(uc *fakeItemUsecase, tokens *token.Service) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewItemHandler(uc, logger)
	authRequired := middleware.Auth(tokens, &fakeRevocationRepo{}, logger)

	r := gin.New()
	r.GET("/api/items/:id", h.GetByID)
	r.POST("/api/items/:id/contact", authRequired, h.Contact)
	r.PATCH("/api/items/:id/claim", authRequired, h.Claim)
	r.DELETE("/api/items/:id", authRequired, h.Delete)
	r.GET("/api/search", h.Search)
	return r
}

func bearerFor(t *testing.T, tokens *token.Service, email string) string {
	t.Helper()
	signed, err := tokens.Issue(email, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + signed
}

func do(engine *gin.Engine, method, path, authorization, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	engine.ServeHTTP(w, req)
	return w
}

// ---- GetByID ----

func TestGetByID_UnknownItem_Returns404(t *testing.T) {
	uc := &fakeItemUsecase{
		get: func(_ context.Context, _ string) (*domain.Item, error) {
			return nil, domain.ErrItemNotFound
		},
	}
	w := do(newItemEngine(uc, token.NewService([]byte(itemTestKey))), http.MethodGet, "/api/items/missing", "", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetByID_Success_Returns200(t *testing.T) {
	uc := &fakeItemUsecase{
		get: func(_ context.Context, id string) (*domain.Item, error) {
			return &domain.Item{ID: id, Title: "Blue water bottle", Status: domain.StatusFound}, nil
		},
	}
	w := do(newItemEngine(uc, token.NewService([]byte(itemTestKey))), http.MethodGet, "/api/items/item-1", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Blue water bottle") {
		t.Errorf("body %q missing the item title", w.Body.String())
	}
}

// ---- Contact ----

func TestContact_RequesterIsTheCaller(t *testing.T) {
	tokens := token.NewService([]byte(itemTestKey))
	var gotRequester string
	uc := &fakeItemUsecase{
		recordContact: func(_ context.Context, _, requester, _ string) error {
			gotRequester = requester
			return nil
		},
	}

	w := do(newItemEngine(uc, tokens), http.MethodPost, "/api/items/item-1/contact",
		bearerFor(t, tokens, "alice@kristujayanti.com"), `{"message":"is this mine?"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotRequester != "alice@kristujayanti.com" {
		t.Errorf("requester = %q, want the authenticated caller", gotRequester)
	}
}

func TestContact_MissingMessage_Returns400(t *testing.T) {
	tokens := token.NewService([]byte(itemTestKey))
	uc := &fakeItemUsecase{
		recordContact: func(_ context.Context, _, _, _ string) error {
			t.Fatal("RecordContact called without a message")
			return nil
		},
	}

	w := do(newItemEngine(uc, tokens), http.MethodPost, "/api/items/item-1/contact",
		bearerFor(t, tokens, "alice@kristujayanti.com"), `{}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestContact_SelfContact_Returns400(t *testing.T) {
	tokens := token.NewService([]byte(itemTestKey))
	uc := &fakeItemUsecase{
		recordContact: func(_ context.Context, _, _, _ string) error {
			return domain.ErrSelfContact
		},
	}

	w := do(newItemEngine(uc, tokens), http.MethodPost, "/api/items/item-1/contact",
		bearerFor(t, tokens, "poster@kristujayanti.com"), `{"message":"mine"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestContact_Unauthenticated_Returns401(t *testing.T) {
	uc := &fakeItemUsecase{}
	w := do(newItemEngine(uc, token.NewService([]byte(itemTestKey))), http.MethodPost,
		"/api/items/item-1/contact", "", `{"message":"hello"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// ---- Claim ----

func TestClaim_ErrorMapping(t *testing.T) {
	tokens := token.NewService([]byte(itemTestKey))
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown item", domain.ErrItemNotFound, http.StatusNotFound},
		{"self claim", domain.ErrSelfClaim, http.StatusBadRequest},
		{"no prior contact", domain.ErrClaimGate, http.StatusConflict},
		{"already claimed", domain.ErrAlreadyClaimed, http.StatusConflict},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
		{"success", nil, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeItemUsecase{
				markClaimed: func(_ context.Context, _, _ string) error { return tc.err },
			}
			w := do(newItemEngine(uc, tokens), http.MethodPatch, "/api/items/item-1/claim",
				bearerFor(t, tokens, "alice@kristujayanti.com"), "")

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

// ---- Delete ----

func TestDelete_NonOwned_Returns404(t *testing.T) {
	tokens := token.NewService([]byte(itemTestKey))
	uc := &fakeItemUsecase{
		deleteOwned: func(_ context.Context, _, _ string) error {
			return domain.ErrItemNotFound
		},
	}

	w := do(newItemEngine(uc, tokens), http.MethodDelete, "/api/items/item-1",
		bearerFor(t, tokens, "intruder@kristujayanti.com"), "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// ---- Search ----

func TestSearch_MissingKeyword_Returns400(t *testing.T) {
	uc := &fakeItemUsecase{
		search: func(_ context.Context, _ string) ([]*domain.Item, error) {
			t.Fatal("Search called without a keyword")
			return nil, nil
		},
	}
	w := do(newItemEngine(uc, token.NewService([]byte(itemTestKey))), http.MethodGet, "/api/search", "", "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearch_PassesKeyword(t *testing.T) {
	var gotKeyword string
	uc := &fakeItemUsecase{
		search: func(_ context.Context, keyword string) ([]*domain.Item, error) {
			gotKeyword = keyword
			return nil, nil
		},
	}
	w := do(newItemEngine(uc, token.NewService([]byte(itemTestKey))), http.MethodGet, "/api/search?q=bottle", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotKeyword != "bottle" {
		t.Errorf("keyword = %q, want bottle", gotKeyword)
	}
}
