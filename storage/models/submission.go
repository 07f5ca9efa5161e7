// storage/models/submission.go
package models

import "time"

// Submission records one swap submission lifecycle. Amounts are stored as
// decimal strings: they are 128-bit integers on chain and must survive the
// round-trip without precision loss.
type Submission struct {
	BaseModel
	TxHash       string     `gorm:"unique;type:varchar(88)"`
	TokenIn      string     `gorm:"index;not null;type:varchar(44)"`
	TokenOut     string     `gorm:"index;not null;type:varchar(44)"`
	AmountIn     string     `gorm:"not null;type:varchar(48)"`
	AmountOutMin string     `gorm:"type:varchar(48)"`
	Path         string     `gorm:"type:text"`
	Status       string     `gorm:"not null;type:varchar(20)"`
	ErrorKind    string     `gorm:"type:varchar(40)"`
	ErrorMessage string     `gorm:"type:text"`
	Slot         uint64     `gorm:""`
	ConfirmedAt  *time.Time `gorm:"index"`
}

// QuoteRecord captures a served quote for later analysis of pricing
// quality versus execution.
type QuoteRecord struct {
	BaseModel
	TokenIn        string `gorm:"index;not null;type:varchar(44)"`
	TokenOut       string `gorm:"index;not null;type:varchar(44)"`
	AmountIn       string `gorm:"not null;type:varchar(48)"`
	AmountOut      string `gorm:"not null;type:varchar(48)"`
	Path           string `gorm:"type:text"`
	FeeBps         uint16 `gorm:""`
	PriceImpactBps uint16 `gorm:""`
}
