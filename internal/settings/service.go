package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/loyafu/storefront-backend/internal/cart"
	"github.com/loyafu/storefront-backend/pkg/config"
	"github.com/loyafu/storefront-backend/pkg/db/models"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

const (
	KeyWhatsAppNumber  = "whatsapp_number"
	KeyStoreName       = "store_name"
	KeyWelcomeMessage  = "welcome_message"
	KeyDeliveryMessage = "delivery_message"
)

var knownKeys = map[string]struct{}{
	KeyWhatsAppNumber:  {},
	KeyStoreName:       {},
	KeyWelcomeMessage:  {},
	KeyDeliveryMessage: {},
}

// StoreSettings is the resolved storefront identity.
type StoreSettings struct {
	WhatsAppNumber  string `json:"whatsapp_number"`
	StoreName       string `json:"store_name"`
	WelcomeMessage  string `json:"welcome_message"`
	DeliveryMessage string `json:"delivery_message"`
}

type Service interface {
	Get(ctx context.Context) (StoreSettings, error)
	Identity(ctx context.Context) (cart.StoreIdentity, error)
	Update(ctx context.Context, values map[string]string) (StoreSettings, error)
}

type settingsStore interface {
	All(ctx context.Context) ([]models.SiteSetting, error)
	Upsert(ctx context.Context, rows []models.SiteSetting) error
}

type service struct {
	repo     settingsStore
	defaults StoreSettings
}

func NewService(repo settingsStore, cfg config.StoreConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{
		repo: repo,
		defaults: StoreSettings{
			WhatsAppNumber:  cfg.WhatsAppNumber,
			StoreName:       cfg.Name,
			WelcomeMessage:  cfg.WelcomeMessage,
			DeliveryMessage: cfg.DeliveryMessage,
		},
	}, nil
}

// Get merges stored values over the configured defaults. Blank stored values fall back.
func (s *service) Get(ctx context.Context) (StoreSettings, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return StoreSettings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load site settings")
	}
	out := s.defaults
	for _, row := range rows {
		value := strings.TrimSpace(row.Value)
		if value == "" {
			continue
		}
		switch row.Key {
		case KeyWhatsAppNumber:
			out.WhatsAppNumber = value
		case KeyStoreName:
			out.StoreName = value
		case KeyWelcomeMessage:
			out.WelcomeMessage = value
		case KeyDeliveryMessage:
			out.DeliveryMessage = value
		}
	}
	return out, nil
}

func (s *service) Identity(ctx context.Context) (cart.StoreIdentity, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return cart.StoreIdentity{}, err
	}
	return cart.StoreIdentity{
		StoreName:      current.StoreName,
		WelcomeMessage: current.WelcomeMessage,
		WhatsAppNumber: current.WhatsAppNumber,
	}, nil
}

func (s *service) Update(ctx context.Context, values map[string]string) (StoreSettings, error) {
	if len(values) == 0 {
		return StoreSettings{}, pkgerrors.New(pkgerrors.CodeValidation, "no settings provided")
	}
	details := map[string]string{}
	rows := make([]models.SiteSetting, 0, len(values))
	for key, value := range values {
		key = strings.TrimSpace(strings.ToLower(key))
		if _, ok := knownKeys[key]; !ok {
			details[key] = "unknown setting"
			continue
		}
		value = strings.TrimSpace(value)
		if key == KeyWhatsAppNumber && value != "" && !hasDigit(value) {
			details[key] = "must contain digits"
			continue
		}
		rows = append(rows, models.SiteSetting{Key: key, Value: value})
	}
	if len(details) > 0 {
		return StoreSettings{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid settings").WithDetails(details)
	}
	if err := s.repo.Upsert(ctx, rows); err != nil {
		return StoreSettings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save site settings")
	}
	return s.Get(ctx)
}

func hasDigit(value string) bool {
	for _, r := range value {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
