package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  a\x00b\x07c  "))
	assert.Equal(t, "line\nnext\tx", SanitizeString("line\nnext\tx"))
}

func TestValidateVehicleID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"truck-001", false},
		{"VAN_2.eu", false},
		{"7", false},
		{"", true},
		{"-leading", true},
		{"has space", true},
		{" padded", true},
		{"slash/id", true},
		{strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateVehicleID(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("dispatcher"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ab"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Sup3r$ecret"))
	assert.Error(t, ValidatePassword("Sh0rt!"))
	assert.Error(t, ValidatePassword("alllower1!"))
	assert.Error(t, ValidatePassword("ALLUPPER1!"))
	assert.Error(t, ValidatePassword("NoDigits!!"))
	assert.Error(t, ValidatePassword("NoSpecial11"))
}

func TestEngineFeatures(t *testing.T) {
	ok := models.EngineFeatures{EngineTemp: 90, OilPressure: 40, Mileage: 1000, VehicleAge: 2, AvgLoad: 0.5, EngineHours: 100}
	require.NoError(t, EngineFeatures(ok))

	bad := ok
	bad.OilPressure = -1
	bad.AvgLoad = 1.5
	bad.EngineTemp = math.NaN()

	err := EngineFeatures(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldErrors{
		"oilPressure": "must not be negative",
		"avgLoad":     "must be between 0 and 1",
		"engineTemp":  "must be a finite number",
	}, fe)
	assert.Equal(t, "invalid input: avgLoad: must be between 0 and 1; engineTemp: must be a finite number; oilPressure: must not be negative", err.Error())
}

func TestOtherFeatures(t *testing.T) {
	assert.NoError(t, BrakeFeatures(models.BrakeFeatures{PadThickness: 5, FluidLevel: 0.8}))
	assert.Error(t, BrakeFeatures(models.BrakeFeatures{FluidLevel: 2}))

	assert.NoError(t, BatteryFeatures(models.BatteryFeatures{Voltage: 12, Temperature: -20}))
	assert.Error(t, BatteryFeatures(models.BatteryFeatures{Voltage: math.Inf(1)}))

	assert.NoError(t, TireFeatures(models.TireFeatures{TreadDepth: 4, Pressure: 32}))
	assert.Error(t, TireFeatures(models.TireFeatures{TreadDepth: -0.1}))

	assert.NoError(t, FuelFeatures(models.FuelFeatures{AvgSpeed: 60, EngineLoad: 0.5}))
	assert.Error(t, FuelFeatures(models.FuelFeatures{IdleRatio: 1.2}))
}

func TestSnapshot(t *testing.T) {
	s := models.VehicleSnapshot{VehicleID: "v1", EngineTemp: -5, BatteryVoltage: 12.4}
	assert.NoError(t, Snapshot(s))

	s.TirePressure = -3
	assert.ErrorIs(t, Snapshot(s), ErrInvalidInput)

	s.TirePressure = 30
	s.VehicleID = ""
	assert.ErrorIs(t, Snapshot(s), ErrInvalidInput)
}
