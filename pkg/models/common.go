package models

import (
	"github.com/google/uuid"
)

// NewUUID generates a new UUID string
func NewUUID() string {
	return uuid.New().String()
}

// Domain names one of the five maintenance models.
type Domain string

const (
	DomainEngine  Domain = "engine"
	DomainBrake   Domain = "brake"
	DomainBattery Domain = "battery"
	DomainTire    Domain = "tire"
	DomainFuel    Domain = "fuel"
)

// Domains lists every model in training order.
var Domains = []Domain{DomainEngine, DomainBrake, DomainBattery, DomainTire, DomainFuel}

func ParseDomain(s string) (Domain, bool) {
	for _, d := range Domains {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}
