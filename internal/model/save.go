package model

// Identity names "the same logical save" wherever it appears, independent
// of the on-disk file name. Two values are reserved: IdentityEmpty means
// extraction failed for the file, IdentityIgnore means the file is
// intentionally excluded from reconciliation (autosaves and the like).
type Identity string

const (
	IdentityEmpty  Identity = ""
	IdentityIgnore Identity = "__IGNORE__"
)

func (id Identity) Sentinel() bool {
	return id == IdentityEmpty || id == IdentityIgnore
}

// Side tells which directory of a game entry a file lives in.
type Side string

const (
	SideClient Side = "CLIENT"
	SideBackup Side = "BACKUP"
)

// Direction of a copy action between the two sides.
type Direction string

const (
	DirectionToBackup Direction = "CLIENT_TO_BACKUP"
	DirectionToClient Direction = "BACKUP_TO_CLIENT"
)

// SaveFile is one concrete replica of a save on one side.
type SaveFile struct {
	Path     string
	Side     Side
	Identity Identity
}

// SyncRecord describes one attempted copy action and its outcome.
type SyncRecord struct {
	Game      string
	Identity  Identity
	Direction Direction
	SrcPath   string
	DstPath   string
	Err       error
}
