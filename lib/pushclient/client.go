package pushclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"

	"github.com/oliverisaac/pushdemo/lib/validate"
	"github.com/oliverisaac/pushdemo/types"
	"github.com/pkg/errors"
)

const (
	SubscriptionPath = "/api/push/subscription"
	SendPath         = "/api/push/send"
)

// SubmitSubscription hands the browser's subscription to the server.
func (c *Controller) SubmitSubscription(ctx context.Context, sub *types.SubscriptionJSON) error {
	if sub == nil || sub.Endpoint == "" {
		return errors.New("invalid subscription data")
	}

	var result types.MessageResponse
	err := c.postJSON(ctx, SubscriptionPath, map[string]any{"subscription": sub}, &result)
	if err != nil {
		return errors.Wrap(err, "submitting subscription")
	}

	c.log.Infof("Subscription submitted: %s", result.Message)
	return nil
}

// DefaultOptions are applied to every push sent through SendPush before the
// caller's options.
func (c *Controller) DefaultOptions() types.NotificationOptions {
	requireInteraction := false
	return types.NotificationOptions{
		Icon:               types.DefaultIcon,
		Badge:              types.DefaultBadge,
		Image:              types.DefaultImage,
		Tag:                types.DefaultNotificationTag,
		RequireInteraction: &requireInteraction,
		Data: map[string]any{
			"url": c.origin,
		},
	}
}

// SendPush asks the server to push a notification to its stored subscription.
// renotify, silent and actions are always true, false and empty.
func (c *Controller) SendPush(ctx context.Context, title, message string, opts types.NotificationOptions) error {
	if err := validate.Struct(opts); err != nil {
		return errors.Wrap(err, "invalid notification options")
	}

	req := types.SendRequest{
		Title:               title,
		Message:             message,
		Body:                message,
		NotificationOptions: MergeOptions(c.DefaultOptions(), opts),
		Renotify:            true,
		Silent:              false,
		Actions:             []types.NotificationAction{},
	}

	var result types.MessageResponse
	if err := c.postJSON(ctx, SendPath, req, &result); err != nil {
		err = errors.Wrap(err, "sending push notification")
		c.log.Error(err)
		return err
	}

	c.log.Infof("Push notification sent: %s", result.Message)
	return nil
}

// MergeOptions lays every set field of custom over base. Data is replaced as a
// whole, never merged key by key.
func MergeOptions(base, custom types.NotificationOptions) types.NotificationOptions {
	ret := base
	if custom.Icon != "" {
		ret.Icon = custom.Icon
	}
	if custom.Badge != "" {
		ret.Badge = custom.Badge
	}
	if custom.Image != "" {
		ret.Image = custom.Image
	}
	if custom.URL != "" {
		ret.URL = custom.URL
	}
	if custom.Tag != "" {
		ret.Tag = custom.Tag
	}
	if custom.RequireInteraction != nil {
		v := *custom.RequireInteraction
		ret.RequireInteraction = &v
	}
	if custom.Data != nil {
		ret.Data = maps.Clone(custom.Data)
	} else {
		ret.Data = maps.Clone(base.Data)
	}
	return ret
}

func (c *Controller) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshalling request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "Failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server responded with %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}
