package main

import (
	"encoding/json"
	errs "errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/pushdemo/lib/pushsender"
	"github.com/oliverisaac/pushdemo/lib/store"
	"github.com/oliverisaac/pushdemo/lib/validate"
	"github.com/oliverisaac/pushdemo/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	subscriptionPath = "/api/push/subscription"
	sendPath         = "/api/push/send"
	unsubscribePath  = "/api/push/unsubscribe"
)

type setSubscriptionRequest struct {
	Subscription *types.SubscriptionJSON `json:"subscription"`
}

func jsonError(c echo.Context, status int, err error) error {
	return c.JSON(status, types.ErrorResponse{Error: err.Error()})
}

// decodeJSON reads the request body as JSON whatever its Content-Type. An empty
// body leaves v untouched.
func decodeJSON(c echo.Context, v any) error {
	err := json.NewDecoder(c.Request().Body).Decode(v)
	if errs.Is(err, io.EOF) {
		return nil
	}
	return err
}

// pushAPI dispatches every POST under /api/push/ on its exact path.
func pushAPI(cfg types.Config, st store.Store, sender pushsender.Provider) echo.HandlerFunc {
	set := setSubscription(cfg, st)
	send := sendPush(cfg, st, sender)
	remove := removeSubscription(cfg, st)

	return func(c echo.Context) error {
		switch c.Request().URL.Path {
		case subscriptionPath:
			return set(c)
		case sendPath:
			return send(c)
		case unsubscribePath:
			return remove(c)
		default:
			return notFoundAPI(c)
		}
	}
}

func notFoundAPI(c echo.Context) error {
	return c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Invalid endpoint"})
}

func setSubscription(cfg types.Config, st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req setSubscriptionRequest
		if err := decodeJSON(c, &req); err != nil {
			return jsonError(c, http.StatusBadRequest, errors.Wrap(err, "decoding subscription"))
		}
		if req.Subscription == nil {
			return jsonError(c, http.StatusUnprocessableEntity, errors.New("missing subscription"))
		}
		if err := validate.Struct(req.Subscription); err != nil {
			return jsonError(c, http.StatusUnprocessableEntity, err)
		}

		sub, err := types.NewPushSubscription(*req.Subscription)
		if err != nil {
			return jsonError(c, http.StatusUnprocessableEntity, err)
		}

		if err := st.Put(c.Request().Context(), sub); err != nil {
			logrus.Error(err)
			return jsonError(c, http.StatusInternalServerError, err)
		}

		if cfg.Keyed() {
			if err := rememberSubscriber(c, sub.SubscriberID); err != nil {
				logrus.Error(errors.Wrap(err, "remembering subscriber"))
			}
		}

		logrus.Infof("Stored subscription %s", sub.SubscriberID)
		return c.JSON(http.StatusOK, types.MessageResponse{Message: "Subscription set."})
	}
}

func sendPush(cfg types.Config, st store.Store, sender pushsender.Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var req types.SendRequest
		if err := decodeJSON(c, &req); err != nil {
			return jsonError(c, http.StatusBadRequest, errors.Wrap(err, "decoding push request"))
		}
		if err := validate.Struct(req); err != nil {
			return jsonError(c, http.StatusUnprocessableEntity, err)
		}

		sub, err := targetSubscription(c, cfg, st)
		if errs.Is(err, store.ErrNotFound) {
			return jsonError(c, http.StatusConflict, err)
		}
		if err != nil {
			logrus.Error(err)
			return jsonError(c, http.StatusInternalServerError, err)
		}

		pushPayload, err := json.Marshal(req.Notification())
		if err != nil {
			return errors.Wrap(err, "marshalling push payload")
		}

		log := logrus.WithField("subscriber", sub.SubscriberID)
		err = sender.Send(ctx, sub.Webpush(), pushPayload)
		switch {
		case errs.Is(err, pushsender.ErrSubscriptionGone):
			log.Info("Dropping expired subscription")
			if delErr := st.Delete(ctx, sub.SubscriberID); delErr != nil {
				log.Error(errors.Wrap(delErr, "deleting subscription"))
			}
			return jsonError(c, http.StatusGone, err)
		case err != nil:
			log.Error(errors.Wrap(err, "sending push notification"))
			return jsonError(c, http.StatusBadGateway, err)
		}

		log.Info("Sent push notification")
		return c.JSON(http.StatusOK, types.MessageResponse{Message: "Push sent."})
	}
}

// removeSubscription drops the caller's subscription. In keyed mode a caller
// without a remembered subscriber id removes nothing.
func removeSubscription(cfg types.Config, st store.Store) echo.HandlerFunc {
	removed := types.MessageResponse{Message: "Subscription removed."}
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var id string
		if cfg.Keyed() {
			sessID, ok := GetSessionSubscriber(c)
			if !ok {
				return c.JSON(http.StatusOK, removed)
			}
			id = sessID
		} else {
			sub, err := st.Latest(ctx)
			if errs.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusOK, removed)
			}
			if err != nil {
				return jsonError(c, http.StatusInternalServerError, err)
			}
			id = sub.SubscriberID
		}

		if err := st.Delete(ctx, id); err != nil {
			return jsonError(c, http.StatusInternalServerError, errors.Wrap(err, "removing subscription"))
		}

		if cfg.Keyed() {
			if err := forgetSubscriber(c); err != nil {
				logrus.Error(errors.Wrap(err, "forgetting subscriber"))
			}
		}

		return c.JSON(http.StatusOK, removed)
	}
}
