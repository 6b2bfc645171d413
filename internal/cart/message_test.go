package cart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

func composeFor(t *testing.T, snap Snapshot, payment enums.PaymentMethod) string {
	t.Helper()
	totals, err := Price(snap, payment)
	require.NoError(t, err)
	msg, err := ComposeMessage(snap, totals, payment, StoreIdentity{})
	require.NoError(t, err)
	return msg
}

func TestComposeMessagePickupCashDiscount(t *testing.T) {
	t.Parallel()

	snap := pricedSnapshot(t, enums.DeliveryMethodPickup, func(s *State) {
		require.NoError(t, s.AddItem(lipstick(), "Rojo Fuego", 2))
	})

	want := "Hola! Quiero realizar el siguiente pedido en Loyafu:\n\n" +
		"- (2) Labial Rojo [Tono: Rojo Fuego] - $20.00\n" +
		"\nMétodo de Entrega: Retiro en Tienda\n" +
		"Método de Pago: Divisa (Efectivo)\n" +
		"Subtotal: $20.00\n" +
		"Descuento (25% off): -$5.00\n" +
		"Total Final: $15.00\n" +
		"* Precios no incluyen IVA."
	assert.Equal(t, want, composeFor(t, snap, enums.PaymentMethodCashForeignCurrency))
}

func TestComposeMessageMobilePaymentShowsLocalTotal(t *testing.T) {
	t.Parallel()

	snap := pricedSnapshot(t, enums.DeliveryMethodPickup, func(s *State) {
		require.NoError(t, s.AddItem(lipstick(), "", 2))
	})
	msg := composeFor(t, snap, enums.PaymentMethodMobilePayment)

	assert.Contains(t, msg, "- (2) Labial Rojo - $20.00\n")
	assert.NotContains(t, msg, "Descuento")
	assert.True(t, strings.HasSuffix(msg, "Total Final: $20.00 / Bs.800.00\n\n(Tasa ref: 40.00)\n* Precios no incluyen IVA."), msg)
}

func TestComposeMessageLocalCurrency(t *testing.T) {
	t.Parallel()

	state := NewState()
	require.NoError(t, state.SetExchangeRate(fortyRate()))
	require.NoError(t, state.SetDisplayCurrency(enums.CurrencyLocal))
	require.NoError(t, state.AddItem(wholesaleProduct(), "", 6))
	msg := composeFor(t, state.Snapshot(), enums.PaymentMethodCryptoStablecoin)

	assert.Contains(t, msg, "- (6) Base Mate - Bs.1920.00 (Mayorista)\n")
	assert.Contains(t, msg, "Método de Pago: Binance (USDT)\n")
	assert.Contains(t, msg, "Subtotal: Bs.1920.00\n")
	assert.Contains(t, msg, "Descuento (25% off): -Bs.480.00\n")
	assert.Contains(t, msg, "Total Final: Bs.1440.00\n")
	assert.NotContains(t, msg, "Tasa ref")
}

func TestComposeMessageLocalDeliveryDetails(t *testing.T) {
	t.Parallel()

	snap := pricedSnapshot(t, enums.DeliveryMethodLocalDelivery, func(s *State) {
		require.NoError(t, s.AddItem(lipstick(), "Rosa", 1))
		s.SetDeliveryDetails(&DeliveryDetails{
			SenderName:    "Ana",
			SenderPhone:   "04141234567",
			ReceiverName:  "Luis",
			ReceiverPhone: "04247654321",
		})
	})
	msg := composeFor(t, snap, enums.PaymentMethodMobilePayment)

	assert.Contains(t, msg, "\nMétodo de Entrega: Delivery Local\n\nDatos de Delivery:\n")
	assert.Contains(t, msg, "Quien envía: Ana (04141234567)\n")
	assert.Contains(t, msg, "Quien recibe: Luis (04247654321)\n")
	assert.Contains(t, msg, "\n\nMétodo de Pago: Pago Móvil\n")
}

func TestComposeMessageNationalShipping(t *testing.T) {
	t.Parallel()

	details := &DeliveryDetails{
		ReceiverName:  "Maria Perez",
		ReceiverPhone: "04120000000",
		IDNumber:      "V-12345678",
		Email:         "maria@example.com",
		Agency:        "MRW",
		AgencyAddress: "Av. Bolivar, Valencia",
	}
	snap := pricedSnapshot(t, enums.DeliveryMethodNationalShipping, func(s *State) {
		require.NoError(t, s.AddItem(lipstick(), "Rosa", 1))
		s.SetDeliveryDetails(details)
	})
	msg := composeFor(t, snap, enums.PaymentMethodMobilePayment)

	assert.Contains(t, msg, "Datos de Envío Nacional:\n")
	assert.Contains(t, msg, "Cédula: V-12345678\n")
	assert.Contains(t, msg, "Agencia: MRW\n")
	assert.NotContains(t, msg, "Código de Agencia")
	assert.Contains(t, msg, "Descuento (25% off): -$2.50\n")
	assert.Contains(t, msg, "Total Final: $7.50 / Bs.300.00")
}

func TestComposeMessageRejectsInvalidCheckout(t *testing.T) {
	t.Parallel()

	snap := pricedSnapshot(t, enums.DeliveryMethodNationalShipping, func(s *State) {
		require.NoError(t, s.AddItem(lipstick(), "", 1))
	})
	totals, err := Price(snap, enums.PaymentMethodMobilePayment)
	require.NoError(t, err)

	_, err = ComposeMessage(snap, totals, enums.PaymentMethodMobilePayment, StoreIdentity{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ComposeMessage(snap, totals, enums.PaymentMethodCashForeignCurrency, StoreIdentity{})
	require.Error(t, err)
}

func TestComposeMessageUsesStoreIdentity(t *testing.T) {
	t.Parallel()

	snap := pricedSnapshot(t, enums.DeliveryMethodPickup, func(s *State) {
		require.NoError(t, s.AddItem(lipstick(), "", 1))
	})
	totals, err := Price(snap, enums.PaymentMethodMobilePayment)
	require.NoError(t, err)
	msg, err := ComposeMessage(snap, totals, enums.PaymentMethodMobilePayment, StoreIdentity{
		StoreName:      "Tienda Centro",
		WelcomeMessage: "Buenas, quiero pedir en",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg, "Buenas, quiero pedir en Tienda Centro:\n\n"))
}

func TestDeliveryDetailsValidateListsMissingFields(t *testing.T) {
	t.Parallel()

	err := DeliveryDetails{SenderName: "Ana"}.Validate(enums.DeliveryMethodLocalDelivery)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Len(t, details, 3)
	assert.Contains(t, details, "receiver_phone")

	assert.NoError(t, DeliveryDetails{}.Validate(enums.DeliveryMethodPickup))
}
