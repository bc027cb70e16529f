package mapper

import (
	"github.com/stackshift/stack-migrator/types"
)

// ProfileDefaults are the configuration values applied when a template leaves a setting unset.
type ProfileDefaults struct {
	StorageEncrypted    bool
	MultiAz             bool
	BackupRetentionDays int
	PointInTimeRecovery bool
	Versioning          bool
}

var profileDefaults = map[types.ComplianceProfile]ProfileDefaults{
	types.ComplianceProfileCommercial: {
		StorageEncrypted:    true,
		MultiAz:             false,
		BackupRetentionDays: 7,
		PointInTimeRecovery: false,
		Versioning:          false,
	},
	types.ComplianceProfileFedRAMPModerate: {
		StorageEncrypted:    true,
		MultiAz:             true,
		BackupRetentionDays: 14,
		PointInTimeRecovery: true,
		Versioning:          true,
	},
	types.ComplianceProfileFedRAMPHigh: {
		StorageEncrypted:    true,
		MultiAz:             true,
		BackupRetentionDays: 35,
		PointInTimeRecovery: true,
		Versioning:          true,
	},
}

func DefaultsFor(profile types.ComplianceProfile) ProfileDefaults {
	if defaults, ok := profileDefaults[profile]; ok {
		return defaults
	}
	return profileDefaults[types.ComplianceProfileCommercial]
}
