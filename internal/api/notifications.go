package api

import (
	"context"
	nethttp "net/http"
	"net/url"

	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// NotificationsClient wraps the /notifications endpoint group.
type NotificationsClient struct {
	gw *Gateway
}

// NewNotificationsClient creates a notifications client over the
// gateway.
func NewNotificationsClient(gw *Gateway) *NotificationsClient {
	return &NotificationsClient{gw: gw}
}

// List returns the notification feed, newest first.
func (c *NotificationsClient) List(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadCount returns the number of unread entries.
func (c *NotificationsClient) UnreadCount(ctx context.Context) (int, error) {
	var out models.UnreadCount
	if err := c.gw.doJSON(ctx, nethttp.MethodGet, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkRead marks one entry as read.
func (c *NotificationsClient) MarkRead(ctx context.Context, id string) error {
	return c.gw.doJSON(ctx, nethttp.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}
