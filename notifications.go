package storefront

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/savorline/storefront-client/internal/gateway"
)

// FetchNotifications loads the notification list and refreshes the unread
// counter.
func (c *Client) FetchNotifications(ctx context.Context) ([]Notification, error) {
	s := c.stores.Notifications
	s.SetLoading(true)
	defer s.SetLoading(false)

	var list []Notification
	if err := c.gw.Call(ctx, gateway.EpListNotifications, nil, &list); err != nil {
		return nil, c.fail(s, "fetch notifications", err)
	}
	s.SetAll(list)
	s.SetUnread(countUnread(list))
	return list, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	if id == "" {
		return validationErr("notification id is required")
	}
	if err := c.gw.Call(ctx, gateway.EpMarkNotificationRead(id), nil, nil); err != nil {
		return c.fail(c.stores.Notifications, "mark notification read", err)
	}
	return c.reconcileNotifications(ctx, "mark notification read")
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.gw.Call(ctx, gateway.EpMarkAllRead, nil, nil); err != nil {
		return c.fail(c.stores.Notifications, "mark all read", err)
	}
	return c.reconcileNotifications(ctx, "mark all read")
}

// DeleteNotification removes a single notification.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	if id == "" {
		return validationErr("notification id is required")
	}
	if err := c.gw.Call(ctx, gateway.EpDeleteNotification(id), nil, nil); err != nil {
		return c.fail(c.stores.Notifications, "delete notification", err)
	}
	return c.reconcileNotifications(ctx, "delete notification")
}

// DeleteReadNotifications removes every notification already marked read.
func (c *Client) DeleteReadNotifications(ctx context.Context) error {
	if err := c.gw.Call(ctx, gateway.EpDeleteReadNotifs, nil, nil); err != nil {
		return c.fail(c.stores.Notifications, "delete read notifications", err)
	}
	return c.reconcileNotifications(ctx, "delete read notifications")
}

// UnreadCount asks the server for the unread counter and stores it.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.gw.Call(ctx, gateway.EpUnreadCount, nil, &out); err != nil {
		return 0, c.fail(c.stores.Notifications, "unread count", err)
	}
	c.stores.Notifications.SetUnread(out.Count)
	return out.Count, nil
}

// StartUnreadPoller refreshes the unread counter in the background at the
// given rate until ctx is cancelled. Polling is best effort: failures are
// logged at debug level and never surface in a store, and the poller does
// not run while no session is active.
func (c *Client) StartUnreadPoller(ctx context.Context, limit rate.Limit) {
	limiter := rate.NewLimiter(limit, 1)
	go func() {
		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			if !c.HasSession() {
				continue
			}
			var out struct {
				Count int `json:"count"`
			}
			if err := c.gw.Call(ctx, gateway.EpUnreadCount, nil, &out); err != nil {
				c.log.WithError(err).Debug("unread poll failed")
				continue
			}
			c.stores.Notifications.SetUnread(out.Count)
		}
	}()
}

func (c *Client) reconcileNotifications(ctx context.Context, op string) error {
	var list []Notification
	if err := c.gw.Call(ctx, gateway.EpListNotifications, nil, &list); err != nil {
		return c.fail(c.stores.Notifications, op+": reconcile", err)
	}
	c.stores.Notifications.SetAll(list)
	c.stores.Notifications.SetUnread(countUnread(list))
	return nil
}

func countUnread(list []Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}
