package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	constants "ChipBook/constants/ledger"
	"ChipBook/middleware"
	models "ChipBook/models/postgres"
	"ChipBook/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.GameSession{}, &models.BuyIn{},
		&models.SessionResult{}, &models.Settlement{},
	))

	router := gin.New()
	middleware.SetUpMiddleware(router)
	routes.SetupRoutes(router, db, nil)

	return &testServer{router: router, db: db}
}

func (ts *testServer) seedUser(t *testing.T, username, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		FullName:     username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, ts.db.Create(user).Error)
	return user
}

// do performs a request. auth is either a cookie header value or a
// bearer token, distinguished by the authIsToken flag.
func (ts *testServer) do(t *testing.T, method, path string, body interface{}, auth string, authIsToken bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		if authIsToken {
			req.Header.Set("Authorization", "Bearer "+auth)
		} else {
			req.Header.Set("Cookie", auth)
		}
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// login returns the session cookie and bearer token for an account.
func (ts *testServer) login(t *testing.T, username, password string) (cookie, token string) {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/login", gin.H{
		"username": username, "password": password,
	}, "", false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == "chipbook_session" {
			cookie = c.Name + "=" + c.Value
		}
	}
	require.NotEmpty(t, cookie)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return cookie, resp.Token
}

func TestPing(t *testing.T) {
	ts := setupTestServer(t)
	w := ts.do(t, http.MethodGet, "/ping", nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedUser(t, "admin", "admin123", models.RoleAdmin)

	t.Run("wrong password yields the stable error shape", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/login", gin.H{
			"username": "admin", "password": "nope",
		}, "", false)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		var resp struct {
			Status  string `json:"status"`
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "UNAUTHORIZED", resp.Code)
	})

	t.Run("valid credentials set the cookie and return a token", func(t *testing.T) {
		cookie, token := ts.login(t, "admin", "admin123")

		w := ts.do(t, http.MethodGet, "/auth/me", nil, cookie, false)
		assert.Equal(t, http.StatusOK, w.Code)

		w = ts.do(t, http.MethodGet, "/auth/me", nil, token, true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("protected routes reject anonymous callers", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/sessions", nil, "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// The full ledger round trip over HTTP: request, approve with override,
// cash out, reject, resubmit, approve.
func TestLedgerWorkflow(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedUser(t, "admin", "admin123", models.RoleAdmin)
	player := ts.seedUser(t, "player1", "player123", models.RolePlayer)

	adminCookie, _ := ts.login(t, "admin", "admin123")
	_, playerToken := ts.login(t, "player1", "player123")

	// Admin opens a session
	w := ts.do(t, http.MethodPost, "/sessions", gin.H{
		"name":        "Friday Night",
		"sessionDate": "2025-06-06",
		"startTime":   "2025-06-06T19:00:00Z",
	}, adminCookie, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var session struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	// Player cannot create sessions
	w = ts.do(t, http.MethodPost, "/sessions", gin.H{
		"name":        "Rogue Game",
		"sessionDate": "2025-06-07",
		"startTime":   "2025-06-07T19:00:00Z",
	}, playerToken, true)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Player requests a buy-in of 1000
	w = ts.do(t, http.MethodPost, "/buyins", gin.H{
		"sessionId": session.ID, "amount": "1000.00",
	}, playerToken, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var buyIn struct {
		ID            uint                 `json:"id"`
		RequestStatus models.RequestStatus `json:"requestStatus"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &buyIn))
	assert.Equal(t, models.RequestPending, buyIn.RequestStatus)

	// Player cannot approve their own buy-in
	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/buyins/%d/approve", buyIn.ID), gin.H{}, playerToken, true)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin approves with an override of 1200
	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/buyins/%d/approve", buyIn.ID), gin.H{
		"amount": "1200.00",
	}, adminCookie, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var approved struct {
		Amount        decimal.Decimal      `json:"amount"`
		RequestStatus models.RequestStatus `json:"requestStatus"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &approved))
	assert.Equal(t, models.RequestApproved, approved.RequestStatus)
	assert.True(t, approved.Amount.Equal(decimal.RequireFromString("1200.00")))

	// Second approval attempt fails
	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/buyins/%d/approve", buyIn.ID), gin.H{}, adminCookie, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Player cashes out at 1500 for +300
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/sessions/%d/cashout", session.ID), gin.H{
		"finalAmount": "1500.00",
	}, playerToken, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cashOut struct {
		ProfitLoss decimal.Decimal `json:"profitLoss"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cashOut))
	assert.True(t, cashOut.ProfitLoss.Equal(decimal.RequireFromString("300.00")))

	// Admin rejects the cash-out pending a recount
	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/sessions/%d/cashout/reject", session.ID), gin.H{
		"playerId": player.ID, "rejectionNote": "recount needed",
	}, adminCookie, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Player resubmits at 1450; admin approves for +250
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/sessions/%d/cashout", session.ID), gin.H{
		"finalAmount": "1450.00",
	}, playerToken, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/sessions/%d/cashout/approve", session.ID), gin.H{
		"playerId": player.ID,
	}, adminCookie, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cashOut))
	assert.True(t, cashOut.ProfitLoss.Equal(decimal.RequireFromString("250.00")))
}

func TestPlayerAdministration(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.seedUser(t, "admin", "admin123", models.RoleAdmin)
	adminCookie, _ := ts.login(t, "admin", "admin123")

	// Create a player over the API
	w := ts.do(t, http.MethodPost, "/players", gin.H{
		"username": "player9",
		"email":    "player9@example.com",
		"fullName": "Player Nine",
		"password": "player123",
	}, adminCookie, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("admin cannot delete their own account", func(t *testing.T) {
		w := ts.do(t, http.MethodDelete, fmt.Sprintf("/players/%d", admin.ID), nil, adminCookie, false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("players cannot list accounts", func(t *testing.T) {
		_, token := ts.login(t, "player9", "player123")
		w := ts.do(t, http.MethodGet, "/players", nil, token, true)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("deactivated accounts cannot authenticate", func(t *testing.T) {
		w := ts.do(t, http.MethodPatch, fmt.Sprintf("/players/%d/active", created.ID), gin.H{
			"isActive": false,
		}, adminCookie, false)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.do(t, http.MethodPost, "/login", gin.H{
			"username": "player9", "password": "player123",
		}, "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
