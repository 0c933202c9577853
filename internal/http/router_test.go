package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
	authStore "github.com/MrJamesThe3rd/stockroom/internal/auth/store"
	"github.com/MrJamesThe3rd/stockroom/internal/config"
	stockHttp "github.com/MrJamesThe3rd/stockroom/internal/http"
	authHttp "github.com/MrJamesThe3rd/stockroom/internal/http/auth"
	"github.com/MrJamesThe3rd/stockroom/internal/http/importcsv"
	"github.com/MrJamesThe3rd/stockroom/internal/http/invoice"
	"github.com/MrJamesThe3rd/stockroom/internal/http/product"
	reportHttp "github.com/MrJamesThe3rd/stockroom/internal/http/report"
	"github.com/MrJamesThe3rd/stockroom/internal/http/transaction"
	"github.com/MrJamesThe3rd/stockroom/internal/importer"
	"github.com/MrJamesThe3rd/stockroom/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/stockroom/internal/ledger/store"
	"github.com/MrJamesThe3rd/stockroom/internal/report"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T) http.Handler {
	t.Helper()

	return newServerWithLedger(t, ledgerStore.NewSeeded())
}

func newServerWithLedger(t *testing.T, repo ledger.Repository) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.HealthPath = "/health"
	cfg.CORS.AllowedOrigins = []string{"*"}

	users, err := authStore.NewSeeded()
	require.NoError(t, err)

	var (
		ledgerSvc = ledger.NewService(repo, ledger.WithClock(ledger.ClockFunc(func() time.Time { return now })))
		authSvc   = auth.NewService(users)
		tokens    = auth.NewTokens("test-secret", time.Hour)
	)

	return stockHttp.New(cfg, tokens, stockHttp.Handlers{
		Auth:         authHttp.NewHandler(authSvc, tokens, 0),
		Products:     product.NewHandler(ledgerSvc),
		Transactions: transaction.NewHandler(ledgerSvc),
		Invoices:     invoice.NewHandler(ledgerSvc),
		Reports:      reportHttp.NewHandler(report.NewService(ledgerSvc)),
		Import:       importcsv.NewHandler(importer.NewService(), ledgerSvc),
	})
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func login(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp.Error
}

func TestRouter_Health(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_NotFound(t *testing.T) {
	h := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "UnknownPath", method: http.MethodGet, path: "/nope"},
		{name: "WrongMethod", method: http.MethodPost, path: "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, "", nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Not Found", decodeError(t, rec))
		})
	}
}

func TestRouter_OptionsPreflight(t *testing.T) {
	h := newServer(t)

	for _, path := range []string{"/health", "/api/v1/products", "/anything"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code, path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestRouter_BareOptions(t *testing.T) {
	h := newServer(t)

	tests := []struct {
		name   string
		path   string
		origin string
	}{
		{name: "NoOrigin", path: "/api/v1/products"},
		{name: "WithOrigin", path: "/health", origin: "http://localhost:3000"},
		{name: "UnknownRoute", path: "/anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
		})
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/health", "", nil)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestAuth_LoginAndMe(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := login(t, h, "empleado", "emp123")

	rec = do(t, h, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "empleado", me.Username)
	assert.Equal(t, "employee", me.Role)
}

func TestAuth_Register(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "nuevo",
		"password": "secreto",
		"role":     "employee",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"account created"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "admin",
		"password": "secreto",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"username already in use"}`, rec.Body.String())

	login(t, h, "nuevo", "secreto")
}

func TestProducts_RequireToken(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/products", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProducts_ListAndSearch(t *testing.T) {
	h := newServer(t)
	token := login(t, h, "empleado", "emp123")

	rec := do(t, h, http.MethodGet, "/api/v1/products?q=mouse&category=all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []product.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "P002", products[0].Code)
	assert.True(t, products[0].LowStock)

	rec = do(t, h, http.MethodGet, "/api/v1/products/low-stock", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)

	rec = do(t, h, http.MethodGet, "/api/v1/products/"+ledger.SeedLaptopID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProducts_AdminMutations(t *testing.T) {
	h := newServer(t)
	admin := login(t, h, "admin", "admin123")
	employee := login(t, h, "empleado", "emp123")

	body := map[string]any{
		"code":      "P005",
		"name":      "Docking Station",
		"category":  "Accesorios",
		"price":     "150",
		"stock":     7,
		"min_stock": 2,
	}

	rec := do(t, h, http.MethodPost, "/api/v1/products", employee, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/products", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created product.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "active", string(created.Status))

	rec = do(t, h, http.MethodPost, "/api/v1/products", admin, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/products", admin, map[string]any{"code": "P006", "stock": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/v1/products/"+created.ID.String(), admin, map[string]any{"stock": 9})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated product.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 9, updated.Stock)
	assert.Equal(t, "Docking Station", updated.Name)

	rec = do(t, h, http.MethodDelete, "/api/v1/products/"+created.ID.String(), admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/v1/products/"+created.ID.String(), admin, map[string]any{"stock": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_UpdateRespondsWithStoredProduct(t *testing.T) {
	renamed := "Laptop HP"

	tests := []struct {
		name       string
		concurrent ledger.Event
		wantStatus int
		wantName   string
	}{
		{name: "NoInterference", wantStatus: http.StatusOK, wantName: "Laptop Dell XPS 13"},
		{
			name:       "ConcurrentRename",
			concurrent: ledger.ProductUpdated{ID: ledger.SeedLaptopID, Patch: ledger.ProductPatch{Name: &renamed}},
			wantStatus: http.StatusOK,
			wantName:   renamed,
		},
		{
			name:       "ConcurrentDelete",
			concurrent: ledger.ProductDeleted{ID: ledger.SeedLaptopID},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			backing := ledgerStore.NewSeeded()

			repo := ledger.NewMockRepository(ctrl)
			repo.EXPECT().Snapshot(gomock.Any()).DoAndReturn(backing.Snapshot).AnyTimes()
			repo.EXPECT().
				Append(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, events ...ledger.Event) error {
					if err := backing.Append(ctx, events...); err != nil {
						return err
					}

					if tt.concurrent == nil {
						return nil
					}

					return backing.Append(ctx, tt.concurrent)
				})

			h := newServerWithLedger(t, repo)
			admin := login(t, h, "admin", "admin123")
			path := "/api/v1/products/" + ledger.SeedLaptopID.String()

			rec := do(t, h, http.MethodPatch, path, admin, map[string]any{"stock": 9})
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				return
			}

			var updated product.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
			assert.Equal(t, 9, updated.Stock)
			assert.Equal(t, tt.wantName, updated.Name)

			rec = do(t, h, http.MethodGet, path, admin, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var stored product.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
			assert.Equal(t, stored, updated)
		})
	}
}

func TestTransactions_Create(t *testing.T) {
	h := newServer(t)
	token := login(t, h, "empleado", "emp123")

	rec := do(t, h, http.MethodPost, "/api/v1/transactions", token, map[string]any{
		"product_id": ledger.SeedLaptopID,
		"type":       "sale",
		"quantity":   6,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient stock", decodeError(t, rec))

	rec = do(t, h, http.MethodPost, "/api/v1/transactions", token, map[string]any{
		"product_id": ledger.SeedLaptopID,
		"type":       "sale",
		"quantity":   0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/transactions", token, map[string]any{
		"product_id": "7a0f6a52-3c1e-4c36-9f0b-2a1d5b9effff",
		"type":       "purchase",
		"quantity":   1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/transactions", token, map[string]any{
		"product_id": ledger.SeedLaptopID,
		"type":       "sale",
		"quantity":   3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tx transaction.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tx))
	assert.Equal(t, "2", tx.UserID)
	assert.Equal(t, "Laptop Dell XPS 13", tx.ProductName)

	rec = do(t, h, http.MethodGet, "/api/v1/products/"+ledger.SeedLaptopID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var p product.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 2, p.Stock)
	assert.True(t, p.LowStock)
}

func TestReports_AdminOnly(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/reports/dashboard", login(t, h, "empleado", "emp123"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := login(t, h, "admin", "admin123")

	rec = do(t, h, http.MethodGet, "/api/v1/reports/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dash struct {
		TotalProducts int `json:"total_products"`
		TotalStock    int `json:"total_stock"`
		UnitsSold     int `json:"units_sold"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, 4, dash.TotalProducts)
	assert.Equal(t, 23, dash.TotalStock)
	assert.Equal(t, 2, dash.UnitsSold)

	rec = do(t, h, http.MethodGet, "/api/v1/reports/transactions?period=year", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/reports/transactions.csv?type=sale", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "date,product_id,product,type,quantity,user_id"))
}

func upload(t *testing.T, h http.Handler, token, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "catalog.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestImport(t *testing.T) {
	h := newServer(t)
	admin := login(t, h, "admin", "admin123")

	rec := upload(t, h, admin, "code,name,category,price,stock,min_stock\nP010,Dock,Accesorios,150.00,3,1\n")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"imported":1`)

	rec = upload(t, h, admin, "code,name,category,price,stock,min_stock\nP001,Laptop,Electrónicos,10,1,1\nP011,Cable,Accesorios,5,1,1\n")
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	var resp struct {
		Imported  int `json:"imported"`
		Conflicts []struct {
			Incoming struct {
				Code string `json:"code"`
			} `json:"incoming"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Imported)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, "P001", resp.Conflicts[0].Incoming.Code)

	rec = upload(t, h, admin, "code,name\nP012,\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_FederatedRoleSelection(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/auth/federated", "", map[string]string{
		"subject": "google-123",
		"email":   "ana@example.com",
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var pending struct {
		PendingID string `json:"pending_id"`
		Username  string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Equal(t, "ana", pending.Username)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/federated/unknown/role", "", map[string]string{"role": "employee"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/federated/"+pending.PendingID+"/role", "", map[string]string{"role": "employee"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var issued struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))

	rec = do(t, h, http.MethodGet, "/api/v1/auth/me", issued.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"federated":true`)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/federated/"+pending.PendingID+"/role", "", map[string]string{"role": "employee"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvoices_Upcoming(t *testing.T) {
	h := newServer(t)
	token := login(t, h, "empleado", "emp123")

	rec := do(t, h, http.MethodGet, "/api/v1/invoices/upcoming", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var invoices []struct {
		Number   string `json:"number"`
		DueState string `json:"due_state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoices))
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-001", invoices[0].Number)
	assert.Equal(t, "overdue", invoices[0].DueState)
}
