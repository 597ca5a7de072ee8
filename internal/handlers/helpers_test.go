package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ledger/internal/auth"
	"ledger/internal/config"
	"ledger/internal/models"
	"ledger/internal/services"
	"ledger/internal/store"
	"ledger/internal/websocket"

	"github.com/jmoiron/sqlx"
)

const testSecret = "secret"

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, username, passwordHash string) error
	getByUsernameFn func(ctx context.Context, username string) (models.User, error)
	getByIDFn       func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, passwordHash)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if s.getByUsernameFn == nil {
		return models.User{}, nil
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID, Username: "ravi"}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubAccountService struct {
	createFn    func(ctx context.Context, req services.CreateAccountRequest) (models.Account, error)
	listFn      func(ctx context.Context, ownerID string) ([]models.AccountSummary, error)
	getFn       func(ctx context.Context, ownerID, accountID string) (models.Account, error)
	updateFn    func(ctx context.Context, req services.UpdateAccountRequest) (models.Account, error)
	deleteFn    func(ctx context.Context, ownerID, accountID string) error
	balanceFn   func(ctx context.Context, ownerID, accountID string) (int64, error)
	reconcileFn func(ctx context.Context, ownerID string) ([]models.BalanceCheck, error)
}

func (s stubAccountService) CreateAccount(ctx context.Context, req services.CreateAccountRequest) (models.Account, error) {
	if s.createFn == nil {
		return models.Account{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubAccountService) ListAccounts(ctx context.Context, ownerID string) ([]models.AccountSummary, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, ownerID)
}

func (s stubAccountService) GetAccount(ctx context.Context, ownerID, accountID string) (models.Account, error) {
	if s.getFn == nil {
		return models.Account{}, nil
	}
	return s.getFn(ctx, ownerID, accountID)
}

func (s stubAccountService) UpdateAccount(ctx context.Context, req services.UpdateAccountRequest) (models.Account, error) {
	if s.updateFn == nil {
		return models.Account{}, nil
	}
	return s.updateFn(ctx, req)
}

func (s stubAccountService) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, ownerID, accountID)
}

func (s stubAccountService) GetAccountBalance(ctx context.Context, ownerID, accountID string) (int64, error) {
	if s.balanceFn == nil {
		return 0, nil
	}
	return s.balanceFn(ctx, ownerID, accountID)
}

func (s stubAccountService) Reconcile(ctx context.Context, ownerID string) ([]models.BalanceCheck, error) {
	if s.reconcileFn == nil {
		return nil, nil
	}
	return s.reconcileFn(ctx, ownerID)
}

type stubEntryService struct {
	createFn    func(ctx context.Context, req services.CreateEntryRequest) (models.Entry, error)
	byAccountFn func(ctx context.Context, ownerID, accountID string) ([]models.Entry, error)
	byDateFn    func(ctx context.Context, ownerID, accountID string, dates store.DateRange) ([]models.Entry, error)
	getFn       func(ctx context.Context, ownerID, entryID string) (models.EntryWithAccount, error)
	listAllFn   func(ctx context.Context, ownerID string) ([]models.EntryWithAccount, error)
	updateFn    func(ctx context.Context, req services.UpdateEntryRequest) (models.Entry, error)
	deleteFn    func(ctx context.Context, ownerID, entryID string) error
}

func (s stubEntryService) CreateEntry(ctx context.Context, req services.CreateEntryRequest) (models.Entry, error) {
	if s.createFn == nil {
		return models.Entry{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubEntryService) GetEntriesByAccount(ctx context.Context, ownerID, accountID string) ([]models.Entry, error) {
	if s.byAccountFn == nil {
		return nil, nil
	}
	return s.byAccountFn(ctx, ownerID, accountID)
}

func (s stubEntryService) GetEntriesByDateRange(ctx context.Context, ownerID, accountID string, dates store.DateRange) ([]models.Entry, error) {
	if s.byDateFn == nil {
		return nil, nil
	}
	return s.byDateFn(ctx, ownerID, accountID, dates)
}

func (s stubEntryService) GetEntry(ctx context.Context, ownerID, entryID string) (models.EntryWithAccount, error) {
	if s.getFn == nil {
		return models.EntryWithAccount{}, nil
	}
	return s.getFn(ctx, ownerID, entryID)
}

func (s stubEntryService) GetAllEntries(ctx context.Context, ownerID string) ([]models.EntryWithAccount, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, ownerID)
}

func (s stubEntryService) UpdateEntry(ctx context.Context, req services.UpdateEntryRequest) (models.Entry, error) {
	if s.updateFn == nil {
		return models.Entry{}, nil
	}
	return s.updateFn(ctx, req)
}

func (s stubEntryService) DeleteEntry(ctx context.Context, ownerID, entryID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, ownerID, entryID)
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      testSecret,
		TokenTTL:       time.Minute,
		AllowedOrigins: []string{"*"},
		BodyLimitBytes: 1 << 20,
	}
}

func newTestHandler(txRunner fakeTxRunner, users stubUserStore, accounts stubAccountService, entries stubEntryService) *Handler {
	return New(txRunner, testConfig(), users, accounts, entries, websocket.NewHub())
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, "ravi", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// serve runs the request through the full router. An empty userID sends no
// token.
func serve(t *testing.T, h *Handler, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

type testEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   bool            `json:"error"`
	Success bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var body testEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success == body.Error {
		t.Fatalf("success and error must differ: %+v", body)
	}
	return body
}

func decodeData(t *testing.T, body testEnvelope, dest any) {
	t.Helper()
	if err := json.Unmarshal(body.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
}

func stringPtr(value string) *string {
	return &value
}
