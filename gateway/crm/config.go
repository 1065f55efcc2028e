package crm

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
)

const (
	DefaultBaseURL     = "https://api.hubapi.com"
	MaxPageSize        = 100
	defaultTimeout     = 10 * time.Second
	tokenVariable      = "HUBSPOT_ACCESS_TOKEN"
	defaultAssocTypeID = 3
	defaultAssocCat    = "HUBSPOT_DEFINED"
)

type Config struct {
	AccessToken         string        `envconfig:"ACCESS_TOKEN" split_words:"true"`
	BaseURL             string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.hubapi.com"`
	Timeout             time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	ListLimit           int           `envconfig:"LIST_LIMIT" split_words:"true" default:"50"`
	AssociationTypeID   int           `envconfig:"ASSOCIATION_TYPE_ID" split_words:"true" default:"3"`
	AssociationCategory string        `envconfig:"ASSOCIATION_CATEGORY" split_words:"true" default:"HUBSPOT_DEFINED"`
}

// Validate reports a missing token as a ConfigurationError so startup can fail loudly.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return &contractx.ConfigurationError{Name: tokenVariable}
	}
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		if _, err := url.ParseRequestURI(base); err != nil {
			return fmt.Errorf("%w: invalid hubspot base url: %v", contractx.ErrValidation, err)
		}
	}
	if c.ListLimit < 0 || c.ListLimit > MaxPageSize {
		return fmt.Errorf("%w: hubspot list limit must be between 1 and %d", contractx.ErrValidation, MaxPageSize)
	}
	if c.AssociationTypeID < 0 {
		return fmt.Errorf("%w: association type id must be positive", contractx.ErrValidation)
	}
	return nil
}

// DealContactAssociation is the association type attached when a deal is created for a contact.
func (c Config) DealContactAssociation() contractx.AssociationType {
	typeID := c.AssociationTypeID
	if typeID == 0 {
		typeID = defaultAssocTypeID
	}
	category := strings.TrimSpace(c.AssociationCategory)
	if category == "" {
		category = defaultAssocCat
	}
	return contractx.AssociationType{Category: category, TypeID: typeID}
}

func (c Config) PageSize() int {
	if c.ListLimit <= 0 {
		return 50
	}
	return c.ListLimit
}
