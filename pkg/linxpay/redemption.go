package linxpay

import "github.com/shopspring/decimal"

// Product types accepted by the redemption endpoint.
const (
	ProductRecreational = "recreational"
	ProductMedicinal    = "medicinal"
)

// Customer identification document types.
const (
	CustomerDriversLicense = "drivers_license"
	CustomerPassport       = "passport"
)

// Customer identifies the card holder. State is required for a drivers_license,
// Country for a passport.
type Customer struct {
	Type     string `json:"type"`
	IDNumber string `json:"id_number"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
}

// StoreLocation is the dispensary where the redemption happens.
type StoreLocation struct {
	Name string `json:"name"`
}

// Budtender is the employee processing the redemption.
type Budtender struct {
	Name string `json:"name"`
}

// RedemptionRequest is the typed payload for POST /api/v1/redemptions/redemption.
type RedemptionRequest struct {
	LinxCardNumber string          `json:"linx_card_number"`
	Customer       Customer        `json:"customer"`
	ProductType    string          `json:"product_type"`
	StoreLocation  StoreLocation   `json:"store_location"`
	Budtender      Budtender       `json:"budtender"`
	Amount         decimal.Decimal `json:"amount"`
}

// Fields converts the request into the generic payload sent on the wire.
// Empty State and Country are left out.
func (r RedemptionRequest) Fields() Fields {
	customer := Fields{
		"type":      r.Customer.Type,
		"id_number": r.Customer.IDNumber,
	}
	if r.Customer.State != "" {
		customer["state"] = r.Customer.State
	}
	if r.Customer.Country != "" {
		customer["country"] = r.Customer.Country
	}

	return Fields{
		"linx_card_number": r.LinxCardNumber,
		"customer":         customer,
		"product_type":     r.ProductType,
		"store_location":   Fields{"name": r.StoreLocation.Name},
		"budtender":        Fields{"name": r.Budtender.Name},
		"amount":           r.Amount,
	}
}
