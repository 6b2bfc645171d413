package cart

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fortyRate() decimal.Decimal {
	return decimal.NewFromInt(40)
}

func TestBuildCheckoutURL(t *testing.T) {
	t.Parallel()

	link, err := BuildCheckoutURL("", "+58 424-409-6534", "Hola (mundo)!\nTotal: $15.00")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/584244096534?text=Hola%20(mundo)!%0ATotal%3A%20%2415.00", link)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Hola (mundo)!\nTotal: $15.00", parsed.Query().Get("text"))
}

func TestBuildCheckoutURLCustomBase(t *testing.T) {
	t.Parallel()

	link, err := BuildCheckoutURL("https://api.whatsapp.com/send/", "584244096534", "Método")
	require.NoError(t, err)
	assert.Equal(t, "https://api.whatsapp.com/send/584244096534?text=M%C3%A9todo", link)
}

func TestBuildCheckoutURLRequiresPhone(t *testing.T) {
	t.Parallel()

	_, err := BuildCheckoutURL("https://wa.me", "n/a", "hola")
	require.Error(t, err)
}
