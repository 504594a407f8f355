package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cdapos/internal/auth"
)

type Action string

const (
	ActionLogin                  Action = "login"
	ActionOpenTill               Action = "open_till"
	ActionCloseTill              Action = "close_till"
	ActionRegisterExpense        Action = "register_expense"
	ActionRegisterExtraIncome    Action = "register_extra_income"
	ActionRegisterSale           Action = "register_sale"
	ActionChargeSale             Action = "charge_sale"
	ActionChangePaymentMethod    Action = "change_payment_method"
	ActionCreateTreasuryMovement Action = "create_treasury_movement"
	ActionUpdateTreasuryConfig   Action = "update_treasury_config"
	ActionReadNotification       Action = "read_notification"
	ActionArchiveNotification    Action = "archive_notification"
	ActionImportTariffs          Action = "import_tariffs"
)

// Field is one typed metadata entry of an event.
type Field struct {
	Key   string
	Value string
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Decimal(key string, value decimal.Decimal) Field {
	return Field{Key: key, Value: value.StringFixed(2)}
}

func UUID(key string, value uuid.UUID) Field {
	return Field{Key: key, Value: value.String()}
}

func Int(key string, value int64) Field {
	return Field{Key: key, Value: decimal.NewFromInt(value).String()}
}

// Event is a single audit log entry.
type Event struct {
	ID           uuid.UUID
	Action       Action
	Description  string
	Actor        auth.Actor
	Fields       []Field
	Success      bool
	ErrorMessage string
	IP           string
	UserAgent    string
	CreatedAt    time.Time
}

// Field returns the value stored under key, if any.
func (e *Event) Field(key string) (string, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}

	return "", false
}

// RequestMeta is the client information attached to events recorded during a request.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type metaKey struct{}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

func requestMeta(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(metaKey{}).(RequestMeta)
	return meta
}
