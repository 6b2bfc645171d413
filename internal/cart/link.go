package cart

import (
	"net/url"
	"strings"

	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

const DefaultCheckoutBaseURL = "https://wa.me"

// componentEscaper turns url.QueryEscape output into URI component encoding:
// spaces become %20 and the sub-delimiters browsers leave intact are restored.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeMessage percent-encodes message for use as the text query value.
func EncodeMessage(message string) string {
	return componentEscaper.Replace(url.QueryEscape(message))
}

// BuildCheckoutURL returns the chat deep link that opens a conversation with
// phone prefilled with message. Non-digit characters in phone are dropped.
func BuildCheckoutURL(baseURL, phone, message string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "store whatsapp number is not configured")
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultCheckoutBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid checkout base url")
	}
	return base + "/" + digits + "?text=" + EncodeMessage(message), nil
}
