package migrations

import (
	"fmt"
	"sort"

	apperrors "github.com/salonkeep/salonkeep/internal/errors"
	"gorm.io/gorm"
)

// Unit is one compiled-in schema change. The registry of units is static:
// every migration ever shipped stays in the list, in ascending version
// order, even if a later change made its content redundant.
type Unit struct {
	Version     string
	Description string
	Apply       func(tx *gorm.DB) error
	Revert      func(tx *gorm.DB) error
}

// All returns the complete ordered migration registry
func All() []Unit {
	return []Unit{
		{
			Version:     "v001",
			Description: "initial schema: clients, treatment_records, product_records, inventory, audit_log",
			Apply:       applyInitialSchema,
			Revert:      revertInitialSchema,
		},
		{
			Version:     "v002",
			Description: "add client_id to audit_log",
			Apply:       applyAuditClientID,
			Revert:      revertAuditClientID,
		},
	}
}

// Pending filters units to those not yet applied, preserving ascending order
func Pending(units []Unit, applied map[string]bool) []Unit {
	var pending []Unit
	for _, unit := range units {
		if !applied[unit.Version] {
			pending = append(pending, unit)
		}
	}
	return pending
}

// Validate checks the registry against the store's applied versions. It
// fails when the registry carries duplicate versions, when the store
// records a version this build does not know (downgraded build), or when
// the applied set is not a prefix of the registry order (a skipped
// version).
func Validate(units []Unit, applied []string) error {
	seen := make(map[string]bool, len(units))
	for i, unit := range units {
		if unit.Version == "" {
			return apperrors.NewConfigurationError(fmt.Sprintf("migration at index %d has no version", i), nil)
		}
		if seen[unit.Version] {
			return apperrors.NewConfigurationError(fmt.Sprintf("duplicate migration version %s in registry", unit.Version), nil)
		}
		seen[unit.Version] = true
		if i > 0 && units[i-1].Version >= unit.Version {
			return apperrors.NewConfigurationError(fmt.Sprintf("registry versions out of order: %s before %s", units[i-1].Version, unit.Version), nil)
		}
	}

	known := make(map[string]int, len(units))
	for i, unit := range units {
		known[unit.Version] = i
	}

	sorted := append([]string(nil), applied...)
	sort.Strings(sorted)
	for i, version := range sorted {
		idx, ok := known[version]
		if !ok {
			return apperrors.NewConfigurationError(fmt.Sprintf("store records migration %s unknown to this build", version), nil)
		}
		// Applied versions must be a prefix of the registry order
		if idx != i {
			return apperrors.NewConfigurationError(fmt.Sprintf("applied migrations are not a prefix of the registry: %s applied out of order", version), nil)
		}
	}

	return nil
}
