package model

import "time"

// BaseModel handles the integer identity and audit timestamps shared by the
// client, supplier and inventory collections.
type BaseModel struct {
	ID          int64      `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated *time.Time `json:"last_updated"`
}

func (b BaseModel) EntityID() int64 { return b.ID }

func (b BaseModel) CreatedTime() time.Time { return b.CreatedAt }

// Touch stamps the record as modified.
func (b *BaseModel) Touch(now time.Time) {
	b.LastUpdated = &now
}

// setIfPresent overwrites dst only when the optional value is present.
func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
