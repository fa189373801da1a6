package linxpay

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// encodeForm renders fields as application/x-www-form-urlencoded.
// Nested objects use bracket keys (customer[type]=passport), lists use
// indexes (tags[0]=a) and nil values are dropped.
func encodeForm(fields Fields) string {
	values := url.Values{}
	for k, v := range fields {
		appendFormValue(values, k, v)
	}
	return values.Encode()
}

func appendFormValue(values url.Values, key string, v any) {
	switch val := v.(type) {
	case nil:
	case Fields:
		for k, x := range val {
			appendFormValue(values, key+"["+k+"]", x)
		}
	case map[string]any:
		for k, x := range val {
			appendFormValue(values, key+"["+k+"]", x)
		}
	case map[string]string:
		for k, x := range val {
			values.Add(key+"["+k+"]", x)
		}
	case []any:
		for i, x := range val {
			appendFormValue(values, key+"["+strconv.Itoa(i)+"]", x)
		}
	case []string:
		for i, x := range val {
			values.Add(key+"["+strconv.Itoa(i)+"]", x)
		}
	case string:
		values.Add(key, val)
	case bool:
		if val {
			values.Add(key, "1")
		} else {
			values.Add(key, "0")
		}
	case float64:
		values.Add(key, strconv.FormatFloat(val, 'f', -1, 64))
	case float32:
		values.Add(key, strconv.FormatFloat(float64(val), 'f', -1, 32))
	case decimal.Decimal:
		values.Add(key, val.String())
	case fmt.Stringer:
		values.Add(key, val.String())
	default:
		values.Add(key, fmt.Sprint(val))
	}
}
