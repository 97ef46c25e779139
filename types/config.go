package types

import (
	errs "errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendSQLite = "sqlite"

	// StoreModeSingle keeps exactly one subscription; every set overwrites it.
	StoreModeSingle = "single"
	// StoreModeKeyed keeps one subscription per subscriber id.
	StoreModeKeyed = "keyed"
)

type Config struct {
	Hostname        string
	ListenAddr      string
	CookieSecret    []byte
	StoreBackend    string
	StoreMode       string
	DBPath          string
	VapidPublicKey  string
	VapidPrivateKey string
	VapidSubject    string
	PushTTL         int
	PushUrgency     webpush.Urgency
}

func (c Config) Keyed() bool {
	return c.StoreMode == StoreModeKeyed
}

func ConfigFromEnv() (Config, error) {
	ret := Config{}
	var retErr error
	var err error
	var ok bool

	ret.VapidPrivateKey, ok = os.LookupEnv("VAPID_PRIVATE_KEY")
	if !ok || ret.VapidPrivateKey == "" {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env VAPID_PRIVATE_KEY"))
	}

	ret.VapidPublicKey, ok = os.LookupEnv("VAPID_PUBLIC_KEY")
	if !ok || ret.VapidPublicKey == "" {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env VAPID_PUBLIC_KEY"))
	}

	ret.VapidSubject = goli.DefaultEnv("VAPID_SUBJECT", "mailto:mail@example.com")
	ret.Hostname = goli.DefaultEnv("PUSHDEMO_HOSTNAME", "localhost")
	ret.ListenAddr = goli.DefaultEnv("PUSHDEMO_LISTEN", ":8080")
	ret.DBPath = goli.DefaultEnv("PUSHDEMO_DB_PATH", ":memory:")

	ret.StoreBackend = strings.ToLower(goli.DefaultEnv("PUSHDEMO_STORE", StoreBackendMemory))
	switch ret.StoreBackend {
	case StoreBackendMemory, StoreBackendSQLite:
	default:
		retErr = errs.Join(retErr, fmt.Errorf("PUSHDEMO_STORE must be %q or %q, got %q", StoreBackendMemory, StoreBackendSQLite, ret.StoreBackend))
	}

	ret.StoreMode = strings.ToLower(goli.DefaultEnv("PUSHDEMO_STORE_MODE", StoreModeSingle))
	switch ret.StoreMode {
	case StoreModeSingle, StoreModeKeyed:
	default:
		retErr = errs.Join(retErr, fmt.Errorf("PUSHDEMO_STORE_MODE must be %q or %q, got %q", StoreModeSingle, StoreModeKeyed, ret.StoreMode))
	}

	cookieSecret, ok := os.LookupEnv("PUSHDEMO_COOKIE_STORE_SECRET")
	if ok && cookieSecret != "" {
		ret.CookieSecret = []byte(cookieSecret)
	} else if ret.Keyed() {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env PUSHDEMO_COOKIE_STORE_SECRET when PUSHDEMO_STORE_MODE=%s", StoreModeKeyed))
	}

	ret.PushTTL, err = strconv.Atoi(goli.DefaultEnv("PUSHDEMO_PUSH_TTL", "3600"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing PUSHDEMO_PUSH_TTL"))
	}

	ret.PushUrgency, err = parseUrgency(goli.DefaultEnv("PUSHDEMO_PUSH_URGENCY", string(webpush.UrgencyNormal)))
	if err != nil {
		retErr = errs.Join(retErr, err)
	}

	logrus.Infof("Subscription store: backend=%s mode=%s", ret.StoreBackend, ret.StoreMode)

	return ret, retErr
}

func parseUrgency(s string) (webpush.Urgency, error) {
	switch u := webpush.Urgency(strings.ToLower(s)); u {
	case webpush.UrgencyVeryLow, webpush.UrgencyLow, webpush.UrgencyNormal, webpush.UrgencyHigh:
		return u, nil
	default:
		return "", fmt.Errorf("PUSHDEMO_PUSH_URGENCY %q is not a valid urgency", s)
	}
}
