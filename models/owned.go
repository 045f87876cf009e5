package models

// Owned is implemented by every per-user collection row.
type Owned interface {
	OwnerID() uint
	SetOwner(userID uint)
	PrimaryKey() uint
	SetPrimaryKey(id uint)
}
