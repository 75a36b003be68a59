package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sandeepkv93/taskdeck/internal/model"
)

type TasksClient struct {
	gw *Gateway
}

func NewTasksClient(gw *Gateway) *TasksClient {
	return &TasksClient{gw: gw}
}

func taskPath(id int64) string {
	return fmt.Sprintf("/tasks/%d", id)
}

func (c *TasksClient) List(ctx context.Context, query url.Values) ([]model.Task, error) {
	out := make([]model.Task, 0)
	err := c.gw.call(ctx, http.MethodGet, "/tasks/", query, nil, &out, []int{http.StatusOK}, RedirectOnUnauthorized())
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TasksClient) Get(ctx context.Context, id int64) (model.Task, error) {
	var out model.Task
	err := c.gw.call(ctx, http.MethodGet, taskPath(id), nil, nil, &out, []int{http.StatusOK}, RedirectOnUnauthorized())
	return out, err
}

func (c *TasksClient) Create(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	var out model.Task
	err := c.gw.call(ctx, http.MethodPost, "/tasks/", nil, in, &out, okCreated, RedirectOnUnauthorized())
	return out, err
}

func (c *TasksClient) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	var out model.Task
	err := c.gw.call(ctx, http.MethodPatch, taskPath(id), nil, patch.Body(), &out, []int{http.StatusOK}, RedirectOnUnauthorized())
	return out, err
}

// Delete succeeds only on 204 No Content.
func (c *TasksClient) Delete(ctx context.Context, id int64) error {
	return c.gw.call(ctx, http.MethodDelete, taskPath(id), nil, nil, nil, okNoBody, RedirectOnUnauthorized())
}
