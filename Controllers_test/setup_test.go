package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-fausse/config"
	"github.com/yeremiapane/cafe-fausse/database"
	"github.com/yeremiapane/cafe-fausse/middlewares"
	"github.com/yeremiapane/cafe-fausse/router"
	"github.com/yeremiapane/cafe-fausse/services"
	"github.com/yeremiapane/cafe-fausse/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLoggerWithLevel("error")
	db, err := config.InitDB(config.Config{DBDriver: config.DriverSQLite, DatabaseURL: ":memory:", LogLevel: "error"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// setupRouter wires the full HTTP stack over an in-memory store with
// tableCount tables.
func setupRouter(t *testing.T, tableCount int, limiter middlewares.Limiter) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	repo := database.NewReservationRepo(db)

	cfg := services.DefaultBookingConfig()
	cfg.TableCount = tableCount

	r := router.SetupRouter(router.Dependencies{
		Booking:      services.NewBookingService(repo, cfg, services.NewRandom(1)),
		Newsletter:   services.NewNewsletterService(repo),
		CORSOrigins:  []string{"http://localhost:3000"},
		WriteLimiter: limiter,
	})
	return r, db
}

func doJSON(t *testing.T, r http.Handler, method, path string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body *bytes.Buffer
	switch p := payload.(type) {
	case nil:
		body = &bytes.Buffer{}
	case string:
		body = bytes.NewBufferString(p)
	default:
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}
