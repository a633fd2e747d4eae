package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// Vehicle IDs: alphanumeric start, then letters, digits, '-', '_' or '.', 1-64 chars
	vehicleIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)
)

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters except newline and tab
	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateVehicleID checks that id is safe to use in URLs, metric labels
// and storage keys.
func ValidateVehicleID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: vehicle id cannot be empty", ErrInvalidInput)
	}
	if id != SanitizeString(id) {
		return fmt.Errorf("%w: vehicle id contains whitespace or control characters", ErrInvalidInput)
	}
	if !vehicleIDRegex.MatchString(id) {
		return fmt.Errorf("%w: vehicle id must be 1-64 letters, numbers, '.', '-' or '_' and start with a letter or number", ErrInvalidInput)
	}
	return nil
}

// ValidateUsername checks if a username is valid
func ValidateUsername(username string) error {
	username = SanitizeString(username)

	if username == "" {
		return errors.New("username cannot be empty")
	}

	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}

	if len(username) > 50 {
		return errors.New("username must not exceed 50 characters")
	}

	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if len(password) > 72 {
		return errors.New("password must not exceed 72 bytes")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return errors.New("password must contain at least one number")
	}
	if !hasSpecial {
		return errors.New("password must contain at least one special character")
	}

	return nil
}

// FieldErrors maps a JSON field name to what is wrong with it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Unwrap() error {
	return ErrInvalidInput
}

type field struct {
	name     string
	value    float64
	signed   bool
	fraction bool
}

// checkFields rejects non-finite readings, negatives where a reading cannot
// be negative, and ratios outside [0,1]. Out-of-range but plausible values
// are left to the models, which clamp them.
func checkFields(fields ...field) error {
	errs := FieldErrors{}
	for _, f := range fields {
		switch {
		case math.IsNaN(f.value) || math.IsInf(f.value, 0):
			errs[f.name] = "must be a finite number"
		case !f.signed && f.value < 0:
			errs[f.name] = "must not be negative"
		case f.fraction && f.value > 1:
			errs[f.name] = "must be between 0 and 1"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func EngineFeatures(f models.EngineFeatures) error {
	return checkFields(
		field{name: "engineTemp", value: f.EngineTemp, signed: true},
		field{name: "oilPressure", value: f.OilPressure},
		field{name: "mileage", value: f.Mileage},
		field{name: "vehicleAge", value: f.VehicleAge},
		field{name: "avgLoad", value: f.AvgLoad, fraction: true},
		field{name: "engineHours", value: f.EngineHours},
	)
}

func BrakeFeatures(f models.BrakeFeatures) error {
	return checkFields(
		field{name: "padThickness", value: f.PadThickness},
		field{name: "fluidLevel", value: f.FluidLevel, fraction: true},
		field{name: "mileageSinceService", value: f.MileageSinceService},
		field{name: "hardBrakingRate", value: f.HardBrakingRate},
		field{name: "brakeTemp", value: f.BrakeTemp, signed: true},
	)
}

func BatteryFeatures(f models.BatteryFeatures) error {
	return checkFields(
		field{name: "voltage", value: f.Voltage},
		field{name: "ageMonths", value: f.AgeMonths},
		field{name: "chargeCycles", value: f.ChargeCycles},
		field{name: "temperature", value: f.Temperature, signed: true},
		field{name: "internalResistance", value: f.InternalResistance},
	)
}

func TireFeatures(f models.TireFeatures) error {
	return checkFields(
		field{name: "treadDepth", value: f.TreadDepth},
		field{name: "pressure", value: f.Pressure},
		field{name: "mileage", value: f.Mileage},
		field{name: "ageMonths", value: f.AgeMonths},
		field{name: "alignmentDeviation", value: f.AlignmentDeviation},
	)
}

func FuelFeatures(f models.FuelFeatures) error {
	return checkFields(
		field{name: "avgSpeed", value: f.AvgSpeed},
		field{name: "engineLoad", value: f.EngineLoad, fraction: true},
		field{name: "idleRatio", value: f.IdleRatio, fraction: true},
		field{name: "tirePressure", value: f.TirePressure},
		field{name: "payloadRatio", value: f.PayloadRatio, fraction: true},
		field{name: "aggressiveness", value: f.Aggressiveness, fraction: true},
	)
}

// Snapshot validates the vehicle ID and every reading of s.
func Snapshot(s models.VehicleSnapshot) error {
	if err := ValidateVehicleID(s.VehicleID); err != nil {
		return err
	}
	return checkFields(
		field{name: "engineTemp", value: s.EngineTemp, signed: true},
		field{name: "oilPressure", value: s.OilPressure},
		field{name: "mileage", value: s.Mileage},
		field{name: "vehicleAge", value: s.VehicleAge},
		field{name: "engineHours", value: s.EngineHours},
		field{name: "brakePadThickness", value: s.BrakePadThickness},
		field{name: "mileageSinceService", value: s.MileageSinceService},
		field{name: "batteryVoltage", value: s.BatteryVoltage},
		field{name: "batteryAgeMonths", value: s.BatteryAgeMonths},
		field{name: "tireTreadDepth", value: s.TireTreadDepth},
		field{name: "tirePressure", value: s.TirePressure},
		field{name: "tireMileage", value: s.TireMileage},
	)
}
