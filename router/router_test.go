package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/hub"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "password123"

var routerNow = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

type testServer struct {
	db     *gorm.DB
	engine *gin.Engine
	svc    *services.ReservationManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	utils.InitLogger("error")
	utils.SetJWTSecret("router-test-secret")
	gin.SetMode(gin.TestMode)

	db := database.OpenTestDB(t)
	_, err := database.SeedTables(db, database.DefaultFloorPlan())
	require.NoError(t, err)
	_, err = database.SeedAdmin(db, "admin@example.com", testPassword)
	require.NoError(t, err)
	createUser(t, db, "staff@example.com", models.RoleStaff)
	createUser(t, db, "cleaner@example.com", models.RoleCleaner)

	clock := services.NewFixedClock(routerNow)
	wsHub := hub.New()
	svc := services.NewReservationService(services.ReservationServiceDeps{
		DB:       db,
		Policy:   services.DefaultBookingPolicy(),
		Clock:    clock,
		Notifier: &services.DBNotifier{DB: db},
	})
	t.Cleanup(svc.Wait)

	engine := SetupRouter(Deps{
		DB:           db,
		Reservations: svc,
		Hub:          wsHub,
		Location:     time.UTC,
		Clock:        clock,
		CORSOrigin:   "http://localhost",
		TokenTTL:     time.Hour,
	})
	return &testServer{db: db, engine: engine, svc: svc}
}

func createUser(t *testing.T, db *gorm.DB, email, role string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Name: role, Email: email, Password: string(hashed), Role: role}).Error)
}

func (s *testServer) do(method, url, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/login", "", map[string]string{"email": "staff@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, utils.CodeUnauthorized, errorCode(t, w))
}

func TestStaffRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPut, "/reservations/1/confirm", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/reservations", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cleaner := s.login(t, "cleaner@example.com")
	w = s.do(http.MethodGet, "/reservations/dashboard", cleaner, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, utils.CodeForbidden, errorCode(t, w))
}

func TestPublicBookingAndStaffConfirm(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/reservations", "", map[string]interface{}{
		"customer_name":    "Dewi",
		"customer_phone":   "+6281234567",
		"reservation_time": "2026-10-15T19:00:00Z",
		"number_of_guests": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data models.Reservation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.ReservationPending, created.Data.Status)

	w = s.do(http.MethodGet, "/reservations/by-number/"+created.Data.ReservationNumber, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	staff := s.login(t, "staff@example.com")
	w = s.do(http.MethodPut, "/reservations/"+strconv.Itoa(int(created.Data.ID))+"/confirm", staff, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/admin/notifications", staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingTooSoonIsRejected(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/reservations", "", map[string]interface{}{
		"customer_name":    "Dewi",
		"customer_phone":   "+6281234567",
		"reservation_time": routerNow.Add(10 * time.Minute).Format(time.RFC3339),
		"number_of_guests": 2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.CodeInvalidReservationTime, errorCode(t, w))
}

func TestTableAdministration(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@example.com")
	staff := s.login(t, "staff@example.com")
	cleaner := s.login(t, "cleaner@example.com")

	w := s.do(http.MethodPost, "/admin/tables", staff, map[string]interface{}{"table_number": 99, "capacity": 4})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/admin/tables", admin, map[string]interface{}{
		"table_number": 99, "capacity": 4, "location": "patio",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data models.Table `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Data.IsActive)

	w = s.do(http.MethodPost, "/admin/tables", admin, map[string]interface{}{"table_number": 99, "capacity": 2})
	assert.Equal(t, http.StatusConflict, w.Code)

	tableURL := "/admin/tables/" + strconv.Itoa(int(created.Data.ID))
	w = s.do(http.MethodPatch, tableURL, admin, map[string]interface{}{"status": models.TableStatusDirty})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, tableURL+"/clean", cleaner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPatch, tableURL+"/clean", cleaner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/admin/tables/9999", admin, map[string]interface{}{"capacity": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, services.CodeTableNotFound, errorCode(t, w))

	w = s.do(http.MethodGet, "/tables?active=true", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []models.Table `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, len(database.DefaultFloorPlan())+1)
}

func TestCustomerRoutes(t *testing.T) {
	s := newTestServer(t)
	staff := s.login(t, "staff@example.com")

	w := s.do(http.MethodPost, "/admin/customers", staff, map[string]interface{}{"name": "Budi", "phone": "+628111222"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/admin/customers/4242", staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, services.CodeCustomerNotFound, errorCode(t, w))
}
