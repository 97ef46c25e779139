package views

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/oliverisaac/pushdemo/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, data types.HomePageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Index(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestIndex_NoSubscription(t *testing.T) {
	html := render(t, types.HomePageData{Config: types.Config{VapidPublicKey: "BPUB"}})
	assert.Contains(t, html, `data-vapid-public-key="BPUB"`)
	assert.Contains(t, html, "There is no subscription")
	assert.NotContains(t, html, `class="error"`)
}

func TestIndex_ShowsSubscriptionEscaped(t *testing.T) {
	data := types.HomePageData{}.WithSubscription(types.PushSubscription{
		Endpoint: "https://push.example.com/<x>",
		Auth:     "a",
		P256DH:   "p",
	})
	html := render(t, data)
	assert.Contains(t, html, "https://push.example.com/&lt;x&gt;")
	assert.NotContains(t, html, "There is no subscription")
}

func TestIndex_ShowsError(t *testing.T) {
	html := render(t, types.HomePageData{}.WithError(errors.New("store <down>")))
	assert.Contains(t, html, `<p class="error">store &lt;down&gt;</p>`)
}

func TestIndex_LinksStylesheet(t *testing.T) {
	html := render(t, types.HomePageData{})
	assert.Contains(t, html, `<link rel="stylesheet" href="/static/style.css">`)
	assert.Contains(t, html, `<pre id="subscription">There is no subscription</pre>`)
}

func TestSubscriptionText_Indented(t *testing.T) {
	data := types.HomePageData{}.WithSubscription(types.PushSubscription{
		Endpoint: "https://push.example.com/<x>",
		Auth:     "a",
		P256DH:   "p",
	})
	text, err := subscriptionText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "\n  \"endpoint\": \"https://push.example.com/<x>\"")
}
