package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkout-service/controllers"
	"checkout-service/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// --- Mock purchase ledger ---

type mockLedger struct {
	records    []models.PurchaseRecord
	findErr    error
	createErr  error
	batchErr   error
	findCalls  int
	createCall int
}

func (m *mockLedger) Create(_ context.Context, record *models.PurchaseRecord) error {
	m.createCall++
	if m.createErr != nil {
		return m.createErr
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *mockLedger) BatchCreate(_ context.Context, _ string, records []models.PurchaseRecord) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockLedger) FindByUser(_ context.Context, userID string) ([]models.PurchaseRecord, error) {
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]models.PurchaseRecord, 0)
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func setupPurchaseRouter(ledger *mockLedger) *gin.Engine {
	logger, _ := zap.NewDevelopment()
	r := gin.New()
	pc := controllers.NewPurchaseController(ledger, logger)
	r.GET("/purchases/:userId", pc.GetPurchases)
	return r
}

// --- Tests ---

func TestGetPurchases_ReturnsRecords(t *testing.T) {
	ledger := &mockLedger{records: []models.PurchaseRecord{
		{ID: "p-1", UserID: "user-1", ProductID: "course-1", ProductName: "Azure Basics", Price: 49.99, PurchaseDate: time.Now().UTC()},
		{ID: "p-2", UserID: "user-2", ProductID: "course-2", ProductName: "AWS Fundamentals", Price: 99.00, PurchaseDate: time.Now().UTC()},
	}}
	r := setupPurchaseRouter(ledger)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/purchases/user-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var records []models.PurchaseRecord
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 1)
	assert.Equal(t, "course-1", records[0].ProductID)
}

func TestGetPurchases_EmptyIsEmptyArray(t *testing.T) {
	ledger := &mockLedger{}
	r := setupPurchaseRouter(ledger)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/purchases/user-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestGetPurchases_LedgerError(t *testing.T) {
	ledger := &mockLedger{findErr: errors.New("query failed")}
	r := setupPurchaseRouter(ledger)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/purchases/user-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Store detail stays out of the response.
	assert.NotContains(t, w.Body.String(), "query failed")
}
