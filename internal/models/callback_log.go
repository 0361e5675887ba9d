package models

import "time"

// CallbackLog records every inbound gateway callback, valid or not, for
// audit and fraud follow-up. Written before signature verification so even
// rejected callbacks leave a trace.
type CallbackLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TxnRef    string    `gorm:"type:varchar(64);index" json:"txn_ref"`
	Valid     bool      `json:"valid"`
	RawQuery  string    `gorm:"type:text" json:"raw_query"`
	CreatedAt time.Time `json:"created_at"`
}
