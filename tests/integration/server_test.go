package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oneiro-app/oneiro/pkg/oneiro/auth"
	"github.com/oneiro-app/oneiro/pkg/oneiro/dreamlogs"
	"github.com/oneiro-app/oneiro/pkg/oneiro/models"
	"github.com/oneiro-app/oneiro/pkg/oneiro/tags"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// setupFullServer creates a Gin engine with all routes registered
// This mirrors the setup in cmd/oneiro-server/main.go
func setupFullServer(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Dream log routes (protected)
		dreamLogsHandler := dreamlogs.NewHandler(db)
		dreamLogsHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))

		// Tag routes (protected)
		tagsHandler := tags.NewHandler(db)
		tagsHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))
	}

	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	if len(resp.Body.Bytes()) > 0 {
		json.Unmarshal(resp.Body.Bytes(), &env)
	}
	return resp, env
}

// TestServerStartup verifies that all routes can be registered without conflicts
func TestServerStartup(t *testing.T) {
	db := setupTestDB(t)

	// This will panic if there are route conflicts
	router := setupFullServer(db)

	if router == nil {
		t.Fatal("Expected router to be created")
	}
}

// TestHealthEndpoint verifies the health endpoint responds correctly
func TestHealthEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)

	req, _ := http.NewRequest("GET", "/health", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}
}

// TestProtectedEndpointsRequireAuth verifies that protected endpoints return 401 without auth
func TestProtectedEndpointsRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)

	protectedEndpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/api/logs"},
		{"POST", "/api/logs"},
		{"GET", "/api/tags"},
		{"POST", "/api/tags"},
		{"GET", "/api/auth/me"},
	}

	for _, endpoint := range protectedEndpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			req, _ := http.NewRequest(endpoint.method, endpoint.path, nil)
			resp := httptest.NewRecorder()

			router.ServeHTTP(resp, req)

			if resp.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401 for %s %s, got %d", endpoint.method, endpoint.path, resp.Code)
			}
		})
	}
}

// TestJournalLifecycle walks one user through the whole journal surface:
// register, record a dream with tags, reuse a tag, rewrite the tag set,
// rename and delete tags.
func TestJournalLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)

	// Register
	resp, env := do(t, router, "POST", "/api/auth/register", "", map[string]interface{}{
		"email":    "dreamer@example.com",
		"password": "password123",
		"name":     "Dreamer",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var authData struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &authData)
	token := authData.Token

	// Create a dream log with two new tags
	resp, env = do(t, router, "POST", "/api/logs", token, map[string]interface{}{
		"description": "Flew over mountains",
		"dream_date":  "2024-05-01T00:00:00Z",
		"is_nap":      false,
		"tag_names":   []string{"flying", "mountains"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create log: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var entry struct {
		ID   uint `json:"id"`
		Tags []struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"tags"`
	}
	json.Unmarshal(env.Data, &entry)
	if len(entry.Tags) != 2 {
		t.Fatalf("create log: expected 2 tags, got %d", len(entry.Tags))
	}

	// A second log reusing "flying" creates no third tag
	resp, _ = do(t, router, "POST", "/api/logs", token, map[string]interface{}{
		"description": "Flew again, briefly",
		"dream_date":  "2024-05-02",
		"is_nap":      "yes",
		"tag_names":   []string{"flying"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create second log: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp, env = do(t, router, "GET", "/api/tags", token, nil)
	var tagList []struct {
		ID         uint   `json:"id"`
		Name       string `json:"name"`
		DreamCount int    `json:"dream_count"`
	}
	json.Unmarshal(env.Data, &tagList)
	if len(tagList) != 2 {
		t.Fatalf("list tags: expected 2, got %d", len(tagList))
	}
	if tagList[0].Name != "flying" || tagList[0].DreamCount != 2 {
		t.Errorf("list tags: expected flying with 2 dreams, got %+v", tagList[0])
	}

	// Replace the first entry's tag set
	resp, _ = do(t, router, "PUT", fmt.Sprintf("/api/logs/%d", entry.ID), token, map[string]interface{}{
		"tag_names": []string{"lucid"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update log: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// "mountains" is now unreferenced and can be deleted; "flying" cannot
	var mountainsID, flyingID uint
	for _, tag := range tagList {
		switch tag.Name {
		case "mountains":
			mountainsID = tag.ID
		case "flying":
			flyingID = tag.ID
		}
	}

	resp, _ = do(t, router, "DELETE", fmt.Sprintf("/api/tags/%d", mountainsID), token, nil)
	if resp.Code != http.StatusOK {
		t.Errorf("delete unreferenced tag: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp, _ = do(t, router, "DELETE", fmt.Sprintf("/api/tags/%d", flyingID), token, nil)
	if resp.Code != http.StatusConflict {
		t.Errorf("delete referenced tag: expected 409, got %d: %s", resp.Code, resp.Body.String())
	}

	// Rename the surviving tag
	resp, _ = do(t, router, "PUT", fmt.Sprintf("/api/tags/%d", flyingID), token, map[string]interface{}{
		"name": "soaring",
	})
	if resp.Code != http.StatusOK {
		t.Errorf("rename tag: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Delete the first entry; its tags survive
	resp, _ = do(t, router, "DELETE", fmt.Sprintf("/api/logs/%d", entry.ID), token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete log: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp, _ = do(t, router, "GET", fmt.Sprintf("/api/logs/%d", entry.ID), token, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("get deleted log: expected 404, got %d", resp.Code)
	}

	resp, env = do(t, router, "GET", "/api/tags", token, nil)
	json.Unmarshal(env.Data, &tagList)
	if len(tagList) != 2 {
		t.Errorf("tags after log delete: expected 2 (lucid, soaring), got %d", len(tagList))
	}
}

// TestUsersAreIsolated verifies one user can never see or touch another's data
func TestUsersAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)

	register := func(email string) string {
		_, env := do(t, router, "POST", "/api/auth/register", "", map[string]interface{}{
			"email":    email,
			"password": "password123",
			"name":     "User",
		})
		var authData struct {
			Token string `json:"token"`
		}
		json.Unmarshal(env.Data, &authData)
		return authData.Token
	}

	alice := register("alice@example.com")
	bob := register("bob@example.com")

	resp, env := do(t, router, "POST", "/api/logs", alice, map[string]interface{}{
		"description": "Flew over mountains",
		"dream_date":  "2024-05-01",
		"tag_names":   []string{"flying"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create log: expected 201, got %d", resp.Code)
	}
	var entry struct {
		ID uint `json:"id"`
	}
	json.Unmarshal(env.Data, &entry)

	if resp, _ := do(t, router, "GET", fmt.Sprintf("/api/logs/%d", entry.ID), bob, nil); resp.Code != http.StatusNotFound {
		t.Errorf("foreign get: expected 404, got %d", resp.Code)
	}
	if resp, _ := do(t, router, "PUT", fmt.Sprintf("/api/logs/%d", entry.ID), bob, map[string]interface{}{"description": "mine now"}); resp.Code != http.StatusNotFound {
		t.Errorf("foreign update: expected 404, got %d", resp.Code)
	}
	if resp, _ := do(t, router, "DELETE", fmt.Sprintf("/api/logs/%d", entry.ID), bob, nil); resp.Code != http.StatusNotFound {
		t.Errorf("foreign delete: expected 404, got %d", resp.Code)
	}

	_, env = do(t, router, "GET", "/api/tags", bob, nil)
	var tagList []struct{}
	json.Unmarshal(env.Data, &tagList)
	if len(tagList) != 0 {
		t.Errorf("foreign tags: expected 0, got %d", len(tagList))
	}
}
