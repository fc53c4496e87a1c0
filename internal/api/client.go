// Package api is the HTTP client used by the taskboard CLI.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/kutbudev/taskboard/internal/db"
	"github.com/kutbudev/taskboard/internal/models"
)

const defaultBaseURL = "http://localhost:8080"

// Client talks to the taskboard API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the configured API endpoint.
func NewClient() *Client {
	baseURL := os.Getenv("TASKBOARD_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// do performs a request and unmarshals the envelope's data into out.
func (c *Client) do(method, endpoint string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Status != "success" {
		return fmt.Errorf("API error (status %d): %s", env.Code, env.Message)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// TaskPayload is a create/update task request body. Nil and empty fields
// are omitted.
type TaskPayload struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Priority    string            `json:"priority,omitempty"`
	Status      string            `json:"status,omitempty"`
	DueDate     string            `json:"due_date,omitempty"`
	CategoryID  *uint             `json:"category_id,omitempty"`
	AssignedTo  string            `json:"assigned_to,omitempty"`
	Subtasks    []db.SubtaskInput `json:"subtasks,omitempty"`
}

// ListTasks fetches a task page with the given query parameters.
func (c *Client) ListTasks(query url.Values) (*db.TaskPage, error) {
	endpoint := "/tasks"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var page db.TaskPage
	if err := c.do(http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTask fetches a single task with subtasks and comments.
func (c *Client) GetTask(id uint) (*db.TaskDetail, error) {
	var detail db.TaskDetail
	if err := c.do(http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateTask creates a task and returns the assembled result.
func (c *Client) CreateTask(payload TaskPayload) (*db.TaskDetail, error) {
	var detail db.TaskDetail
	if err := c.do(http.MethodPost, "/tasks", payload, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateTask applies a partial update and returns the assembled result.
func (c *Client) UpdateTask(id uint, payload TaskPayload) (*db.TaskDetail, error) {
	var detail db.TaskDetail
	if err := c.do(http.MethodPut, fmt.Sprintf("/tasks/%d", id), payload, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// MoveTask changes only the task's status.
func (c *Client) MoveTask(id uint, status string) error {
	body := map[string]string{"status": status}
	return c.do(http.MethodPost, fmt.Sprintf("/tasks/%d/move", id), body, nil)
}

// DeleteTask removes a task and everything it owns.
func (c *Client) DeleteTask(id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// ListActivity fetches a task's audit records, newest first.
func (c *Client) ListActivity(id uint) ([]db.ActivityEntry, error) {
	entries := []db.ActivityEntry{}
	if err := c.do(http.MethodGet, fmt.Sprintf("/tasks/%d/activity", id), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddComment appends a comment to a task.
func (c *Client) AddComment(id uint, author, content string) (*models.Comment, error) {
	body := map[string]string{"author": author, "content": content}
	var comment models.Comment
	if err := c.do(http.MethodPost, fmt.Sprintf("/tasks/%d/comments", id), body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListCategories fetches all categories.
func (c *Client) ListCategories() ([]models.Category, error) {
	categories := []models.Category{}
	if err := c.do(http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(name, color string) (*models.Category, error) {
	body := map[string]string{"name": name, "color": color}
	var category models.Category
	if err := c.do(http.MethodPost, "/categories", body, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category; tasks referencing it are detached.
func (c *Client) DeleteCategory(id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}
