// internal/domain/common/repository_common.go
package common

import "time"

// Timestamps は作成・更新時刻を共通で保持するための埋め込み用構造体
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveOptions は保存時の前提条件（楽観ロック等）を受け取るためのオプション
type SaveOptions struct {
	// IfMatchVersion が指定されていれば、保存済み Version と一致した場合のみ書き込む。
	// ドキュメントが存在しない場合の Version は 0 とみなす。
	IfMatchVersion *int64
}

// IfMatch builds SaveOptions guarded by the given version.
func IfMatch(version int64) SaveOptions {
	v := version
	return SaveOptions{IfMatchVersion: &v}
}

// Matches reports whether a stored version satisfies the precondition.
func (o SaveOptions) Matches(stored int64) bool {
	if o.IfMatchVersion == nil {
		return true
	}
	return *o.IfMatchVersion == stored
}
