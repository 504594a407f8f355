package tariff

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VehicleType is the inspection class a tariff band applies to.
type VehicleType string

const (
	VehicleMotorcycle   VehicleType = "motorcycle"
	VehicleLightPrivate VehicleType = "light_private"
	VehicleLightPublic  VehicleType = "light_public"
	VehicleHeavyPrivate VehicleType = "heavy_private"
	VehicleHeavyPublic  VehicleType = "heavy_public"
	// VehiclePreventive is a voluntary pre-check. Its fee is entered at the till.
	VehiclePreventive VehicleType = "preventive"
)

var vehicleTypes = []VehicleType{
	VehicleMotorcycle,
	VehicleLightPrivate,
	VehicleLightPublic,
	VehicleHeavyPrivate,
	VehicleHeavyPublic,
	VehiclePreventive,
}

// Spanish names used in the tariff sheets published by the ministry.
var vehicleAliases = map[string]VehicleType{
	"moto":               VehicleMotorcycle,
	"motocicleta":        VehicleMotorcycle,
	"liviano_particular": VehicleLightPrivate,
	"liviano_publico":    VehicleLightPublic,
	"pesado_particular":  VehicleHeavyPrivate,
	"pesado_publico":     VehicleHeavyPublic,
	"preventiva":         VehiclePreventive,
}

func VehicleTypes() []VehicleType {
	return append([]VehicleType(nil), vehicleTypes...)
}

func (v VehicleType) Valid() bool {
	for _, t := range vehicleTypes {
		if t == v {
			return true
		}
	}

	return false
}

// ParseVehicleType accepts the canonical names and the Spanish sheet names.
func ParseVehicleType(s string) (VehicleType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	if v := VehicleType(s); v.Valid() {
		return v, true
	}

	v, ok := vehicleAliases[s]

	return v, ok
}

const (
	ClassMotorcycle = "motorcycle"
	ClassCar        = "car"
)

// CommissionClass maps a vehicle type to the insurance commission table it uses.
func (v VehicleType) CommissionClass() string {
	if v == VehicleMotorcycle {
		return ClassMotorcycle
	}

	return ClassCar
}

// Tariff is one age band of the yearly inspection price table.
// AgeMax nil means the band is open ended.
type Tariff struct {
	ID            uuid.UUID
	Year          int
	ValidFrom     time.Time
	ValidTo       time.Time
	VehicleType   VehicleType
	AgeMin        int
	AgeMax        *int
	InspectionFee decimal.Decimal
	ThirdParty    decimal.Decimal
	Total         decimal.Decimal
	CreatedAt     time.Time
}

func (t *Tariff) Contains(age int) bool {
	return age >= t.AgeMin && (t.AgeMax == nil || age <= *t.AgeMax)
}

// Age is the vehicle age in years on the given day. Next year's models, sold from
// mid-year on, count as new.
func Age(modelYear int, on time.Time) int {
	return max(on.Year()-modelYear, 0)
}

// Commission is what the center keeps for selling the mandatory insurance policy.
type Commission struct {
	ID        uuid.UUID
	Class     string
	Amount    decimal.Decimal
	ValidFrom time.Time
	ValidTo   *time.Time
	Active    bool
}

// Quote is what a vehicle owes before payment.
type Quote struct {
	VehicleType   VehicleType     `json:"vehicle_type"`
	ModelYear     int             `json:"model_year"`
	Age           int             `json:"age"`
	InspectionFee decimal.Decimal `json:"inspection_fee"`
	Commission    decimal.Decimal `json:"commission"`
	Total         decimal.Decimal `json:"total"`
}
