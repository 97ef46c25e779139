package main

import (
	errs "errors"

	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/pushdemo/lib/store"
	"github.com/oliverisaac/pushdemo/types"
	"github.com/oliverisaac/pushdemo/views"
	"github.com/sirupsen/logrus"
)

func homePageHandler(cfg types.Config, st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		pageData := types.HomePageData{Config: cfg}

		sub, err := targetSubscription(c, cfg, st)
		switch {
		case err == nil:
			logrus.Debugf("Generating homepage for subscriber %s", sub.SubscriberID)
			pageData = pageData.WithSubscription(sub)
		case errs.Is(err, store.ErrNotFound):
			logrus.Debug("Generating homepage without subscription")
		default:
			pageData = pageData.WithError(err)
		}

		return render(c, 200, views.Index(pageData))
	}
}

// targetSubscription picks the record a send goes to. In keyed mode that is only
// ever the caller's own subscription; single mode has one record for everyone.
func targetSubscription(c echo.Context, cfg types.Config, st store.Store) (types.PushSubscription, error) {
	ctx := c.Request().Context()
	if !cfg.Keyed() {
		return st.Latest(ctx)
	}
	id, ok := GetSessionSubscriber(c)
	if !ok {
		return types.PushSubscription{}, store.ErrNotFound
	}
	return st.Get(ctx, id)
}
