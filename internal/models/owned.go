package models

// Owned は所有ユーザーを持つレコードです。
type Owned interface {
	OwnerID() int
}
