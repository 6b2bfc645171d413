package cart

import (
	"strings"

	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

// DeliveryDetails holds the contact and shipping data captured for local
// delivery or national shipping. Which fields matter depends on the method.
type DeliveryDetails struct {
	SenderName    string `json:"sender_name,omitempty"`
	SenderPhone   string `json:"sender_phone,omitempty"`
	ReceiverName  string `json:"receiver_name,omitempty"`
	ReceiverPhone string `json:"receiver_phone,omitempty"`
	IDNumber      string `json:"id_number,omitempty"`
	Email         string `json:"email,omitempty"`
	Agency        string `json:"agency,omitempty"`
	AgencyAddress string `json:"agency_address,omitempty"`
	AgencyCode    string `json:"agency_code,omitempty"`
}

func (d DeliveryDetails) normalized() DeliveryDetails {
	return DeliveryDetails{
		SenderName:    strings.TrimSpace(d.SenderName),
		SenderPhone:   strings.TrimSpace(d.SenderPhone),
		ReceiverName:  strings.TrimSpace(d.ReceiverName),
		ReceiverPhone: strings.TrimSpace(d.ReceiverPhone),
		IDNumber:      strings.TrimSpace(d.IDNumber),
		Email:         strings.TrimSpace(d.Email),
		Agency:        strings.TrimSpace(d.Agency),
		AgencyAddress: strings.TrimSpace(d.AgencyAddress),
		AgencyCode:    strings.TrimSpace(d.AgencyCode),
	}
}

// Validate checks that every field required by method is present. Methods
// that need no details always pass.
func (d DeliveryDetails) Validate(method enums.DeliveryMethod) error {
	var required map[string]string
	switch method {
	case enums.DeliveryMethodLocalDelivery:
		required = map[string]string{
			"sender_name":    d.SenderName,
			"sender_phone":   d.SenderPhone,
			"receiver_name":  d.ReceiverName,
			"receiver_phone": d.ReceiverPhone,
		}
	case enums.DeliveryMethodNationalShipping:
		required = map[string]string{
			"receiver_name":  d.ReceiverName,
			"receiver_phone": d.ReceiverPhone,
			"id_number":      d.IDNumber,
			"email":          d.Email,
			"agency":         d.Agency,
			"agency_address": d.AgencyAddress,
		}
	default:
		return nil
	}

	missing := map[string]string{}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing[field] = "is required"
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery details incomplete").WithDetails(missing)
	}
	return nil
}
