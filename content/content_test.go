package content

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paperpaints/admin"
	"paperpaints/common"
	"paperpaints/config"
	"paperpaints/models"
	"paperpaints/session"
)

const adminPassword = "admin-password"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), common.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	auth := admin.NewAdminModule(db, admin.Options{Mode: config.AuthModeDigest, Secret: adminPassword})
	NewContentModule(db, auth.RequireAuth).RegisterRoutes(api)
	return router
}

func adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := session.NewDigestIssuer(adminPassword).Issue(session.DigestPrincipal)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := models.NewID(time.Now())
	require.NoError(t, err)
	return id
}

func do(router http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestProducts_CreateRequiresSession(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	body := `{"productName":"Primer","category":"interior","features":"Low odour\n\nQuick dry","ignored":"x"}`

	w := do(router, http.MethodPost, "/api/products", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = do(router, http.MethodPost, "/api/products", body, adminCookie(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode(t, w)
	assert.True(t, models.ValidID(created["_id"].(string)))
	assert.NotEmpty(t, created["_createdDate"])
	assert.NotEmpty(t, created["_updatedDate"])
	assert.Equal(t, "Primer", created["productName"])
	assert.Equal(t, []any{"Low odour", "Quick dry"}, created["features"])
	assert.Equal(t, false, created["featured"])
	assert.NotContains(t, created, "ignored")
	assert.NotContains(t, created, "id")
	assert.NotContains(t, created, "createdAt")

	w = do(router, http.MethodGet, "/api/products/"+created["_id"].(string), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created["_id"], decode(t, w)["_id"])
}

func TestProducts_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	ck := adminCookie(t)

	for _, name := range []string{"First", "Second", "Third"} {
		w := do(router, http.MethodPost, "/api/products", `{"productName":"`+name+`"}`, ck)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(router, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))

	var body struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 3)
	assert.Equal(t, "Third", body.Items[0]["productName"])
	assert.Equal(t, "First", body.Items[2]["productName"])
}

func TestProducts_ListEmpty(t *testing.T) {
	router := setupTestRouter(setupTestDB(t))

	w := do(router, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}

func TestProducts_ConditionalGet(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	require.Equal(t, http.StatusCreated,
		do(router, http.MethodPost, "/api/products", `{"productName":"Primer"}`, adminCookie(t)).Code)

	w := do(router, http.MethodGet, "/api/products", "")
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("If-None-Match", tag)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestProducts_PartialUpdate(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	ck := adminCookie(t)

	w := do(router, http.MethodPost, "/api/products",
		`{"productName":"Primer","category":"interior","technicalSpecifications":["Coverage: 12m2/l"]}`, ck)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["_id"].(string)

	w = do(router, http.MethodPut, "/api/products/"+id, `{"category":"exterior","featured":true}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodPut, "/api/products/"+id, `{"category":"exterior","featured":true}`, ck)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, "Primer", updated["productName"])
	assert.Equal(t, "exterior", updated["category"])
	assert.Equal(t, true, updated["featured"])
	assert.Equal(t, []any{"Coverage: 12m2/l"}, updated["technicalSpecifications"])

	w = do(router, http.MethodPut, "/api/products/"+newID(t), `{"category":"x"}`, ck)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestProducts_DeleteThenGet(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	ck := adminCookie(t)

	w := do(router, http.MethodPost, "/api/products", `{"productName":"Primer"}`, ck)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["_id"].(string)

	w = do(router, http.MethodDelete, "/api/products/"+id, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodDelete, "/api/products/"+id, "", ck)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decode(t, w)
	assert.Equal(t, id, deleted["_id"])
	assert.Equal(t, "Primer", deleted["productName"])

	w = do(router, http.MethodGet, "/api/products/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodDelete, "/api/products/"+id, "", ck)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGet_MalformedIDIsNotFound(t *testing.T) {
	router := setupTestRouter(setupTestDB(t))

	w := do(router, http.MethodGet, "/api/team/not-an-id", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestProjects_CompletionDate(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	ck := adminCookie(t)

	w := do(router, http.MethodPost, "/api/projects", `{"projectName":"Harbour","completionDate":"2024-03-15"}`, ck)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode(t, w)
	assert.Equal(t, "2024-03-15T00:00:00.000Z", project["completionDate"])

	id := project["_id"].(string)
	w = do(router, http.MethodPut, "/api/projects/"+id, `{"completionDate":"2024-06-01T10:30:00+02:00"}`, ck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-06-01T08:30:00.000Z", decode(t, w)["completionDate"])

	w = do(router, http.MethodPut, "/api/projects/"+id, `{"completionDate":"next spring"}`, ck)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/projects/"+id, "")
	assert.Equal(t, "2024-06-01T08:30:00.000Z", decode(t, w)["completionDate"])
}

func TestApplicationsAndTeam(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	ck := adminCookie(t)

	w := do(router, http.MethodPost, "/api/applications",
		`{"title":"Colour consultant","slug":" colour-consultant ","keyBenefits":["Training","Car"]}`, ck)
	require.Equal(t, http.StatusCreated, w.Code)
	app := decode(t, w)
	assert.Equal(t, "colour-consultant", app["slug"])
	assert.Equal(t, []any{"Training", "Car"}, app["keyBenefits"])

	w = do(router, http.MethodPost, "/api/team", `{"name":"Ana","jobTitle":"Chemist"}`, ck)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Chemist", decode(t, w)["jobTitle"])

	w = do(router, http.MethodPost, "/api/team", `{"name":`, ck)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProducts_StoreFailureIsGeneric500(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), common.GormConfig())
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "products"`).WillReturnError(errors.New("connection reset by peer"))

	w := do(setupTestRouter(db), http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch products"}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
