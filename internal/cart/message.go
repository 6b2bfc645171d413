package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

const (
	DefaultStoreName      = "Loyafu"
	DefaultWelcomeMessage = "Hola! Quiero realizar el siguiente pedido en"
)

// StoreIdentity is the store-facing data used to address the order message.
type StoreIdentity struct {
	StoreName      string
	WelcomeMessage string
	WhatsAppNumber string
}

func (i StoreIdentity) withDefaults() StoreIdentity {
	out := StoreIdentity{
		StoreName:      strings.TrimSpace(i.StoreName),
		WelcomeMessage: strings.TrimSpace(i.WelcomeMessage),
		WhatsAppNumber: strings.TrimSpace(i.WhatsAppNumber),
	}
	if out.StoreName == "" {
		out.StoreName = DefaultStoreName
	}
	if out.WelcomeMessage == "" {
		out.WelcomeMessage = DefaultWelcomeMessage
	}
	return out
}

var deliveryLabels = map[enums.DeliveryMethod]string{
	enums.DeliveryMethodPickup:           "Retiro en Tienda",
	enums.DeliveryMethodLocalDelivery:    "Delivery Local",
	enums.DeliveryMethodNationalShipping: "Envío Nacional",
}

var paymentLabels = map[enums.PaymentMethod]string{
	enums.PaymentMethodMobilePayment:       "Pago Móvil",
	enums.PaymentMethodCashForeignCurrency: "Divisa (Efectivo)",
	enums.PaymentMethodCryptoStablecoin:    "Binance (USDT)",
}

// DeliveryLabel returns the shopper-facing name of a delivery method.
func DeliveryLabel(method enums.DeliveryMethod) string {
	if label, ok := deliveryLabels[method]; ok {
		return label
	}
	return string(method)
}

// PaymentLabel returns the shopper-facing name of a payment method.
func PaymentLabel(method enums.PaymentMethod) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return string(method)
}

// ComposeMessage renders the order text sent to the store. Totals must come
// from Price for the same snapshot and payment method.
func ComposeMessage(snap Snapshot, totals Totals, payment enums.PaymentMethod, identity StoreIdentity) (string, error) {
	if err := ValidatePaymentMethod(snap.DeliveryMethod, payment); err != nil {
		return "", err
	}
	if snap.DeliveryMethod.RequiresDetails() {
		if snap.DeliveryDetails == nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "delivery details are required")
		}
		if err := snap.DeliveryDetails.Validate(snap.DeliveryMethod); err != nil {
			return "", err
		}
	}
	if len(totals.Lines) != len(snap.Lines) {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "totals do not match cart lines")
	}

	identity = identity.withDefaults()
	currency := snap.DisplayCurrency
	money := func(amountUSD decimal.Decimal) string {
		return FormatMoney(totals.InCurrency(amountUSD, currency), currency)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s:\n\n", identity.WelcomeMessage, identity.StoreName)

	for i, line := range snap.Lines {
		priced := totals.Lines[i]
		fmt.Fprintf(&b, "- (%d) %s", line.Quantity, line.Name)
		if line.SelectedColor != "" {
			fmt.Fprintf(&b, " [Tono: %s]", line.SelectedColor)
		}
		fmt.Fprintf(&b, " - %s", money(priced.TotalUSD))
		if priced.Wholesale {
			b.WriteString(" (Mayorista)")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nMétodo de Entrega: %s\n", DeliveryLabel(snap.DeliveryMethod))
	writeDeliveryDetails(&b, snap.DeliveryMethod, snap.DeliveryDetails)
	fmt.Fprintf(&b, "Método de Pago: %s\n", PaymentLabel(payment))

	if totals.DiscountApplied {
		fmt.Fprintf(&b, "Subtotal: %s\n", money(totals.SubtotalUSD))
		fmt.Fprintf(&b, "Descuento (%s%% off): -%s\n", DiscountRate.Shift(2).String(), money(totals.DiscountAmount))
	}

	fmt.Fprintf(&b, "Total Final: %s", money(totals.TotalUSD))
	if currency == enums.CurrencyUSD && payment == enums.PaymentMethodMobilePayment {
		fmt.Fprintf(&b, " / %s\n\n(Tasa ref: %s)", FormatMoney(totals.TotalLocal, enums.CurrencyLocal), FormatAmount(totals.ExchangeRate))
	}
	b.WriteString("\n* Precios no incluyen IVA.")
	return b.String(), nil
}

func writeDeliveryDetails(b *strings.Builder, method enums.DeliveryMethod, details *DeliveryDetails) {
	if details == nil {
		return
	}
	switch method {
	case enums.DeliveryMethodLocalDelivery:
		b.WriteString("\nDatos de Delivery:\n")
		fmt.Fprintf(b, "Quien envía: %s (%s)\n", details.SenderName, details.SenderPhone)
		fmt.Fprintf(b, "Quien recibe: %s (%s)\n", details.ReceiverName, details.ReceiverPhone)
		b.WriteString("* Por favor envía tu ubicación (pin del mapa) por este chat.\n\n")
	case enums.DeliveryMethodNationalShipping:
		b.WriteString("\nDatos de Envío Nacional:\n")
		fmt.Fprintf(b, "Nombre: %s\n", details.ReceiverName)
		fmt.Fprintf(b, "Cédula: %s\n", details.IDNumber)
		fmt.Fprintf(b, "Teléfono: %s\n", details.ReceiverPhone)
		fmt.Fprintf(b, "Correo: %s\n", details.Email)
		fmt.Fprintf(b, "Agencia: %s\n", details.Agency)
		fmt.Fprintf(b, "Dirección de Agencia: %s\n", details.AgencyAddress)
		if details.AgencyCode != "" {
			fmt.Fprintf(b, "Código de Agencia: %s\n", details.AgencyCode)
		}
		b.WriteString("* El envío se paga en destino (cobro a destino).\n\n")
	}
}
