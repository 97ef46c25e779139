package main

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const SessionKey = "session"
const SubscriberKey = "session-subscriber"
const SessionSubscriberIDKey = "subscriber"

// SubscriberMiddleware exposes the subscriber id remembered in the caller's
// session, if any, through GetSessionSubscriber.
func SubscriberMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(SessionKey, c)
			if err != nil {
				logrus.Debug(errors.Wrap(err, "reading session"))
				return next(c)
			}
			if id, ok := sess.Values[SessionSubscriberIDKey].(string); ok && id != "" {
				c.Set(SubscriberKey, id)
			}
			return next(c)
		}
	}
}

func GetSessionSubscriber(c echo.Context) (string, bool) {
	id, ok := c.Get(SubscriberKey).(string)
	if ok && id != "" {
		logrus.Debugf("Found session subscriber %s", id)
		return id, true
	}
	return "", false
}

func rememberSubscriber(c echo.Context, id string) error {
	sess, err := session.Get(SessionKey, c)
	if err != nil {
		return errors.Wrap(err, "getting session")
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 365,
		HttpOnly: true,
	}
	sess.Values[SessionSubscriberIDKey] = id
	c.Set(SubscriberKey, id)

	return errors.Wrap(sess.Save(c.Request(), c.Response()), "saving session")
}

func forgetSubscriber(c echo.Context) error {
	sess, err := session.Get(SessionKey, c)
	if err != nil {
		return errors.Wrap(err, "getting session")
	}
	delete(sess.Values, SessionSubscriberIDKey)
	c.Set(SubscriberKey, "")

	return errors.Wrap(sess.Save(c.Request(), c.Response()), "saving session")
}
