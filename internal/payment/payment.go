package payment

import "github.com/MrJamesThe3rd/cdapos/internal/apperr"

// Method is how a customer pays at the till.
type Method string

const (
	MethodCash         Method = "cash"
	MethodDebitCard    Method = "debit_card"
	MethodCreditCard   Method = "credit_card"
	MethodTransfer     Method = "transfer"
	MethodCredismart   Method = "credismart"
	MethodSistecredito Method = "sistecredito"
)

// Mixed is accepted from clients only as a hint that several allocations follow.
// It is never stored on a movement.
const Mixed = "mixed"

var methods = []Method{
	MethodCash,
	MethodDebitCard,
	MethodCreditCard,
	MethodTransfer,
	MethodCredismart,
	MethodSistecredito,
}

func Methods() []Method {
	return append([]Method(nil), methods...)
}

func (m Method) Valid() bool {
	for _, v := range methods {
		if v == m {
			return true
		}
	}

	return false
}

// AffectsCash reports whether money paid this way lands in the physical drawer.
// Card, transfer and installment-credit payments are revenue but never cash on hand.
func (m Method) AffectsCash() bool {
	return m == MethodCash
}

// Parse validates a client-supplied method.
func Parse(s string) (Method, error) {
	if s == Mixed {
		return "", apperr.Validation("%q is not a payment method; send one allocation per method instead", s)
	}

	m := Method(s)
	if !m.Valid() {
		return "", apperr.Validation("invalid payment method %q", s)
	}

	return m, nil
}
