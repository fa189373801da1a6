package linxpay

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Fields is an outgoing request payload. Nested objects may be Fields,
// map[string]any or map[string]string.
type Fields map[string]any

// Validate checks fields against the endpoint's required keys and the LinxPay
// value rules. Rules run in a fixed order and the first failure is returned.
//
// Required keys only need to be present; a nil value counts. The value rules
// only apply to keys holding a non-nil value.
func Validate(spec EndpointSpec, fields Fields) error {
	for _, name := range spec.required {
		if _, ok := fields[name]; !ok {
			return invalid(name, "Missing required field "+name)
		}
	}

	if v, ok := lookup(fields, "product_type"); ok {
		if s, _ := v.(string); s != ProductRecreational && s != ProductMedicinal {
			return invalid("product_type", `Invalid product_type. Valid values are "recreational" or "medicinal"`)
		}
	}

	if v, ok := lookup(fields, "amount"); ok {
		amount, numeric := parseAmount(v)
		if !numeric {
			return invalid("amount", "Invalid amount. amount must be numeric")
		}
		if amount.IsZero() {
			return invalid("amount", "Invalid amount. amount can not be 0")
		}
	}

	if v, ok := lookup(fields, "customer"); ok {
		if err := validateCustomer(v); err != nil {
			return err
		}
	}

	if v, ok := lookup(fields, "store_location"); ok {
		if _, ok := lookup(asObject(v), "name"); !ok {
			return invalid("store_location", "Invalid store name.")
		}
	}

	if v, ok := lookup(fields, "budtender"); ok {
		if _, ok := lookup(asObject(v), "name"); !ok {
			return invalid("budtender", "Invalid budtender name.")
		}
	}

	return nil
}

// validateCustomer always inspects customer.type; there is no top-level customer_type key.
func validateCustomer(v any) error {
	customer := asObject(v)

	t, ok := lookup(customer, "type")
	if !ok {
		return invalid("customer.type", `Invalid customer type. Must be "drivers_license" or "passport"`)
	}
	kind, _ := t.(string)
	if kind != CustomerDriversLicense && kind != CustomerPassport {
		return invalid("customer.type", `Invalid customer type. Must be "drivers_license" or "passport"`)
	}

	if _, ok := lookup(customer, "id_number"); !ok {
		return invalid("customer.id_number", "Invalid customer id_number.")
	}

	switch kind {
	case CustomerDriversLicense:
		if _, ok := lookup(customer, "state"); !ok {
			return invalid("customer.state", "Invalid customer state. Must provide customer state with a drivers_license type")
		}
	case CustomerPassport:
		if _, ok := lookup(customer, "country"); !ok {
			return invalid("customer.country", "Invalid customer state. Must provide customer country with a passport type")
		}
	}
	return nil
}

// lookup reports whether key holds a non-nil value.
func lookup(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	return v, ok && v != nil
}

// asObject returns v as a generic map, or nil if v is not an object.
func asObject(v any) map[string]any {
	switch o := v.(type) {
	case Fields:
		return o
	case map[string]any:
		return o
	case map[string]string:
		m := make(map[string]any, len(o))
		for k, s := range o {
			m[k] = s
		}
		return m
	default:
		return nil
	}
}

// parseAmount accepts Go numbers, json.Number, decimal values and numeric strings.
func parseAmount(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromInt(int64(n)), true
	case uint8:
		return decimal.NewFromInt(int64(n)), true
	case uint16:
		return decimal.NewFromInt(int64(n)), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case float32:
		return parseFloat(float64(n))
	case float64:
		return parseFloat(n)
	case json.Number:
		return parseNumeric(n.String())
	case string:
		return parseNumeric(n)
	default:
		return decimal.Zero, false
	}
}

func parseFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func parseNumeric(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
