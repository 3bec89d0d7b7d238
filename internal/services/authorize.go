package services

import "planedge/backend/internal/models"

// canAccess はユーザーがレコードを閲覧・編集・削除できるかを判定します。
// IDによる読み書きの前に必ずこの判定を通します。
func canAccess(userID int, record models.Owned) bool {
	return record != nil && userID > 0 && record.OwnerID() == userID
}
