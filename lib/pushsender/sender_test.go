package pushsender

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSender(t *testing.T) *WebPush {
	t.Helper()
	priv, pub, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)

	w, err := NewWebPush(Options{
		VapidPublicKey:  pub,
		VapidPrivateKey: priv,
		Subscriber:      "mailto:mail@example.com",
		TTL:             60,
	}, nil)
	require.NoError(t, err)
	return w
}

func newSubscription(t *testing.T, endpoint string) *webpush.Subscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	return &webpush.Subscription{
		Endpoint: endpoint,
		Keys: webpush.Keys{
			P256dh: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
			Auth:   base64.RawURLEncoding.EncodeToString(auth),
		},
	}
}

func pushService(t *testing.T, status int, body string) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var seen []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.ReadAll(r.Body)
		seen = append(seen, r)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestNewWebPush_RequiresKeys(t *testing.T) {
	_, err := NewWebPush(Options{VapidPublicKey: "pub"}, nil)
	assert.Error(t, err)
}

func TestSend_Created(t *testing.T) {
	srv, seen := pushService(t, http.StatusCreated, "")
	w := newSender(t)

	err := w.Send(context.Background(), newSubscription(t, srv.URL+"/push/abc"), []byte(`{"title":"hi"}`))
	require.NoError(t, err)
	require.Len(t, *seen, 1)

	req := (*seen)[0]
	assert.Equal(t, "/push/abc", req.URL.Path)
	assert.Equal(t, "aes128gcm", req.Header.Get("Content-Encoding"))
	assert.Equal(t, "60", req.Header.Get("TTL"))
	assert.Contains(t, req.Header.Get("Authorization"), "vapid")
}

func TestSend_GoneIsTyped(t *testing.T) {
	srv, _ := pushService(t, http.StatusGone, "expired")
	w := newSender(t)

	err := w.Send(context.Background(), newSubscription(t, srv.URL), []byte(`{}`))
	assert.ErrorIs(t, err, ErrSubscriptionGone)
}

func TestSend_ProviderRejection(t *testing.T) {
	srv, _ := pushService(t, http.StatusBadRequest, "bad payload")
	w := newSender(t)

	err := w.Send(context.Background(), newSubscription(t, srv.URL), []byte(`{}`))
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
	assert.Equal(t, "bad payload", perr.Body)
}

func TestSend_NoSubscription(t *testing.T) {
	w := newSender(t)
	assert.Error(t, w.Send(context.Background(), nil, []byte(`{}`)))
	assert.Error(t, w.Send(context.Background(), &webpush.Subscription{}, []byte(`{}`)))
}
