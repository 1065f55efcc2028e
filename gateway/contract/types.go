package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type ObjectType string

const (
	ObjectContacts ObjectType = "contacts"
	ObjectDeals    ObjectType = "deals"
)

var (
	ContactProperties = []string{"firstname", "lastname", "email", "phone", "address"}
	DealProperties    = []string{"dealname", "amount", "dealstage", "closedate", "pipeline"}
)

// AllowedProperties is the property allow-list requested from the provider for kind.
func (k ObjectType) AllowedProperties() []string {
	switch k {
	case ObjectContacts:
		return ContactProperties
	case ObjectDeals:
		return DealProperties
	default:
		return nil
	}
}

// Object is a raw provider record. Unset properties decode as nil.
type Object struct {
	ID         string             `json:"id"`
	Properties map[string]*string `json:"properties"`
}

func (o Object) Property(name string) *string {
	if o.Properties == nil {
		return nil
	}
	return o.Properties[name]
}

// Properties is an opaque property bag forwarded to the provider unchanged.
type Properties map[string]any

// Validate accepts only non-blank keys with scalar values.
func (p Properties) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: properties must not be empty", ErrValidation)
	}
	for k, v := range p {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: property name must not be blank", ErrValidation)
		}
		switch v.(type) {
		case nil, string, bool, float64, json.Number:
		default:
			return fmt.Errorf("%w: property %q must be a string, number, boolean or null", ErrValidation, k)
		}
	}
	return nil
}

// ObjectID accepts both `"123"` and `123` in JSON.
type ObjectID string

func (id *ObjectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ObjectID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: object id must be a string or number", ErrValidation)
	}
	*id = ObjectID(n.String())
	return nil
}

type AssociationType struct {
	Category string `json:"associationCategory"`
	TypeID   int    `json:"associationTypeId"`
}

type AssociationTarget struct {
	ID string `json:"id"`
}

type AssociationInput struct {
	To    AssociationTarget `json:"to"`
	Types []AssociationType `json:"types"`
}

type CreateObjectInput struct {
	Properties   Properties         `json:"properties"`
	Associations []AssociationInput `json:"associations,omitempty"`
}

type ContactSummary struct {
	ID        string  `json:"id"`
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	Email     *string `json:"email"`
}

type DealSummary struct {
	ID        string  `json:"id"`
	DealName  *string `json:"dealname"`
	Amount    *string `json:"amount"`
	DealStage *string `json:"dealstage"`
}

type AssociationLink struct {
	ContactID string
	DealIDs   []string
}

func (l AssociationLink) Empty() bool {
	return len(l.DealIDs) == 0
}
