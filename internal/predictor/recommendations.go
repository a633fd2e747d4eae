package predictor

import "github.com/jayakrishna0023/fleet-guardian/pkg/models"

const (
	recommendEngineOverheat    = "Immediate inspection required: engine overheating. Check coolant level, radiator and thermostat."
	recommendEngineOilPressure = "Immediate inspection required: low oil pressure. Check oil level and oil pump."
)

var recommendations = map[models.Domain]map[models.Severity]string{
	models.DomainEngine: {
		models.SeverityCritical: "Immediate inspection required. Take the vehicle out of service until the engine is checked.",
		models.SeverityHigh:     "Schedule engine service within the week.",
		models.SeverityMedium:   "Monitor engine readings and plan service at the next interval.",
		models.SeverityLow:      "Engine operating normally.",
	},
	models.DomainBrake: {
		models.SeverityCritical: "Immediate brake inspection required. Do not operate the vehicle.",
		models.SeverityHigh:     "Replace brake pads and check fluid soon.",
		models.SeverityMedium:   "Inspect brake pads at the next service.",
		models.SeverityLow:      "Brake system in good condition.",
	},
	models.DomainBattery: {
		models.SeverityCritical: "Battery failure imminent. Replace the battery now.",
		models.SeverityHigh:     "Test battery capacity and plan a replacement.",
		models.SeverityMedium:   "Check terminals and charging system at the next service.",
		models.SeverityLow:      "Battery healthy.",
	},
	models.DomainTire: {
		models.SeverityCritical: "Replace tires immediately.",
		models.SeverityHigh:     "Tire replacement recommended soon. Check pressure and alignment.",
		models.SeverityMedium:   "Rotate tires and verify pressure.",
		models.SeverityLow:      "Tires in good condition.",
	},
}
