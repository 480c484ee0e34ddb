package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkout-service/services"

	"github.com/stretchr/testify/assert"
)

func TestFetchCourseByID_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/courses/course-42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(services.Course{ID: "course-42", Name: "Azure Basics", Price: 49.99})
	}))
	defer srv.Close()

	client := services.NewCatalogClient(srv.URL)
	course, err := client.FetchCourseByID(context.Background(), "course-42")

	assert.Nil(t, err)
	assert.Equal(t, "Azure Basics", course.Name)
	assert.Equal(t, 49.99, course.Price)
}

func TestFetchCourseByID_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := services.NewCatalogClient(srv.URL)
	_, err := client.FetchCourseByID(context.Background(), "missing")

	assert.True(t, errors.Is(err, services.ErrCourseNotFound))
}

func TestFetchCourseByID_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := services.NewCatalogClient(srv.URL)
	_, err := client.FetchCourseByID(context.Background(), "course-42")

	assert.NotNil(t, err)
	assert.False(t, errors.Is(err, services.ErrCourseNotFound))
}
