package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkout-service/controllers"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// --- Mock cart store ---

type mockCartStore struct {
	lines        []models.CartLine
	findLinesErr error
	insertErr    error

	insertCalls int
}

func (m *mockCartStore) FindLines(_ context.Context, userID string) ([]models.CartLine, error) {
	if m.findLinesErr != nil {
		return nil, m.findLinesErr
	}
	out := make([]models.CartLine, 0)
	for _, l := range m.lines {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockCartStore) FindLine(_ context.Context, userID, productID string) (*models.CartLine, error) {
	for _, l := range m.lines {
		if l.UserID == userID && l.ProductID == productID {
			line := l
			return &line, nil
		}
	}
	return nil, nil
}

func (m *mockCartStore) InsertLine(_ context.Context, line *models.CartLine) error {
	m.insertCalls++
	if m.insertErr != nil {
		return m.insertErr
	}
	m.lines = append(m.lines, *line)
	return nil
}

func (m *mockCartStore) BatchDelete(_ context.Context, _ string, _ []string) error {
	return nil
}

// --- Helpers ---

// catalogStub serves the course catalog lookups AddItem makes.
func catalogStub(t *testing.T, courses map[string]services.Course) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for id, course := range courses {
			if r.URL.Path == "/api/courses/"+id {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(course)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func setupCartRouter(store *mockCartStore, catalogURL string) *gin.Engine {
	logger, _ := zap.NewDevelopment()
	r := gin.New()
	cc := controllers.NewCartController(store, services.NewCatalogClient(catalogURL), logger)
	r.POST("/cart/add", cc.AddItem)
	r.GET("/cart/:userId", cc.GetCart)
	return r
}

// --- Tests ---

func TestAddItem_Success(t *testing.T) {
	catalog := catalogStub(t, map[string]services.Course{
		"course-42": {ID: "course-42", Name: "Azure Basics", Price: 49.99},
	})
	defer catalog.Close()

	store := &mockCartStore{}
	r := setupCartRouter(store, catalog.URL)

	body := `{"userId":"user-1","productId":"course-42","quantity":1}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/cart/add", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "added to cart successfully")

	assert.Len(t, store.lines, 1)
	line := store.lines[0]
	assert.Equal(t, "Azure Basics", line.ProductName)
	assert.Equal(t, 49.99, line.Price)
	assert.NotEmpty(t, line.ID)
}

func TestAddItem_DuplicateLine_Conflict(t *testing.T) {
	catalog := catalogStub(t, map[string]services.Course{
		"course-42": {ID: "course-42", Name: "Azure Basics", Price: 49.99},
	})
	defer catalog.Close()

	store := &mockCartStore{lines: []models.CartLine{{
		ID: "line-1", UserID: "user-1", ProductID: "course-42", ProductName: "Azure Basics", Price: 49.99, Quantity: 1,
	}}}
	r := setupCartRouter(store, catalog.URL)

	body := `{"userId":"user-1","productId":"course-42"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/cart/add", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already in your cart")
	assert.Equal(t, 0, store.insertCalls)
}

func TestAddItem_CourseNotFound(t *testing.T) {
	catalog := catalogStub(t, nil)
	defer catalog.Close()

	store := &mockCartStore{}
	r := setupCartRouter(store, catalog.URL)

	body := `{"userId":"user-1","productId":"missing-course"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/cart/add", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, store.insertCalls)
}

func TestAddItem_MissingFields(t *testing.T) {
	catalog := catalogStub(t, nil)
	defer catalog.Close()

	store := &mockCartStore{}
	r := setupCartRouter(store, catalog.URL)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/cart/add", bytes.NewBufferString(`{"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCart_ReturnsLines(t *testing.T) {
	catalog := catalogStub(t, nil)
	defer catalog.Close()

	store := &mockCartStore{lines: []models.CartLine{
		{ID: "line-1", UserID: "user-1", ProductID: "course-1", ProductName: "Azure Basics", Price: 49.99, Quantity: 1},
	}}
	r := setupCartRouter(store, catalog.URL)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cart/user-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var lines []models.CartLine
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &lines))
	assert.Len(t, lines, 1)
	assert.Equal(t, "course-1", lines[0].ProductID)
}

func TestGetCart_EmptyIsEmptyArray(t *testing.T) {
	catalog := catalogStub(t, nil)
	defer catalog.Close()

	store := &mockCartStore{}
	r := setupCartRouter(store, catalog.URL)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cart/user-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
