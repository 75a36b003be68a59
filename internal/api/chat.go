package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sandeepkv93/taskdeck/internal/model"
)

type ChatClient struct {
	gw *Gateway
}

func NewChatClient(gw *Gateway) *ChatClient {
	return &ChatClient{gw: gw}
}

func (c *ChatClient) Send(ctx context.Context, message string) (model.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.ChatMessage{}, errors.New("api: chat message is empty")
	}
	var out model.ChatMessage
	body := map[string]string{"message": message}
	err := c.gw.call(ctx, http.MethodPost, "/chat/", nil, body, &out, okCreated, RedirectOnUnauthorized())
	return out, err
}

func (c *ChatClient) History(ctx context.Context) ([]model.ChatMessage, error) {
	out := make([]model.ChatMessage, 0)
	if err := c.gw.call(ctx, http.MethodGet, "/chat/history", nil, nil, &out, []int{http.StatusOK}, RedirectOnUnauthorized()); err != nil {
		return nil, err
	}
	return out, nil
}
