package types

import (
	errs "errors"
)

type HomePageData struct {
	Config       Config
	Subscription *PushSubscription
	Err          error
}

func (d HomePageData) WithError(err error) HomePageData {
	d.Err = errs.Join(d.Err, err)
	return d
}

func (d HomePageData) WithSubscription(s PushSubscription) HomePageData {
	d.Subscription = &s
	return d
}
