package views

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/oliverisaac/pushdemo/types"
	"github.com/pkg/errors"
)

const noSubscription = "There is no subscription"

// subscriptionText is the indented JSON of the page's subscription. HTML is
// left unescaped here since templ escapes it on output.
func subscriptionText(data types.HomePageData) (string, error) {
	if data.Subscription == nil {
		return noSubscription, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data.Subscription.JSON()); err != nil {
		return "", errors.Wrap(err, "marshalling subscription")
	}
	return strings.TrimSpace(buf.String()), nil
}
