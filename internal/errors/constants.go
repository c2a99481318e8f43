package errors

// Error message constants
const (
	ErrMsgStoreMissing    = "Database file not found"
	ErrMsgBackupDirDenied = "Backup directory is not writable"
	ErrMsgSnapshotOutside = "Snapshot path is outside the backup directory"
	ErrMsgDuplicateVer    = "Duplicate migration version in registry"
	ErrMsgDowngradedBuild = "Store records a version newer than this build knows"
)
