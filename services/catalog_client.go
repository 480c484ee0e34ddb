package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrCourseNotFound is returned when the catalog has no course with the
// requested id.
var ErrCourseNotFound = errors.New("course not found")

type Course struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CatalogClient resolves course details from the Course Catalog service.
type CatalogClient interface {
	FetchCourseByID(ctx context.Context, courseID string) (*Course, error)
}

type HTTPCatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string) *HTTPCatalogClient {
	return &HTTPCatalogClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *HTTPCatalogClient) FetchCourseByID(ctx context.Context, courseID string) (*Course, error) {
	url := fmt.Sprintf("%s/api/courses/%s", c.baseURL, courseID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCourseNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("course catalog returned %d", resp.StatusCode)
	}

	var course Course
	if err := json.NewDecoder(resp.Body).Decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}
