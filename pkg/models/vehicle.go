package models

import "time"

// EngineFeatures are the raw engine readings fed to the engine model.
type EngineFeatures struct {
	EngineTemp  float64 `json:"engineTemp"`
	OilPressure float64 `json:"oilPressure"`
	Mileage     float64 `json:"mileage"`
	VehicleAge  float64 `json:"vehicleAge"`
	AvgLoad     float64 `json:"avgLoad"`
	EngineHours float64 `json:"engineHours"`
}

type BrakeFeatures struct {
	PadThickness        float64 `json:"padThickness"`
	FluidLevel          float64 `json:"fluidLevel"`
	MileageSinceService float64 `json:"mileageSinceService"`
	HardBrakingRate     float64 `json:"hardBrakingRate"`
	BrakeTemp           float64 `json:"brakeTemp"`
}

type BatteryFeatures struct {
	Voltage            float64 `json:"voltage"`
	AgeMonths          float64 `json:"ageMonths"`
	ChargeCycles       float64 `json:"chargeCycles"`
	Temperature        float64 `json:"temperature"`
	InternalResistance float64 `json:"internalResistance"`
}

type TireFeatures struct {
	TreadDepth         float64 `json:"treadDepth"`
	Pressure           float64 `json:"pressure"`
	Mileage            float64 `json:"mileage"`
	AgeMonths          float64 `json:"ageMonths"`
	AlignmentDeviation float64 `json:"alignmentDeviation"`
}

type FuelFeatures struct {
	AvgSpeed       float64 `json:"avgSpeed"`
	EngineLoad     float64 `json:"engineLoad"`
	IdleRatio      float64 `json:"idleRatio"`
	TirePressure   float64 `json:"tirePressure"`
	PayloadRatio   float64 `json:"payloadRatio"`
	Aggressiveness float64 `json:"aggressiveness"`
}

// VehicleSnapshot is the subset of live telemetry a vehicle reports. Values
// the snapshot does not carry are filled with fleet defaults at prediction
// time.
type VehicleSnapshot struct {
	VehicleID           string    `json:"vehicleId"`
	Timestamp           time.Time `json:"timestamp"`
	EngineTemp          float64   `json:"engineTemp"`
	OilPressure         float64   `json:"oilPressure"`
	Mileage             float64   `json:"mileage"`
	VehicleAge          float64   `json:"vehicleAge"`
	EngineHours         float64   `json:"engineHours"`
	BrakePadThickness   float64   `json:"brakePadThickness"`
	MileageSinceService float64   `json:"mileageSinceService"`
	BatteryVoltage      float64   `json:"batteryVoltage"`
	BatteryAgeMonths    float64   `json:"batteryAgeMonths"`
	TireTreadDepth      float64   `json:"tireTreadDepth"`
	TirePressure        float64   `json:"tirePressure"`
	TireMileage         float64   `json:"tireMileage"`
}
