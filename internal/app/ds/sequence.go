package ds

// 7. Named counters for contract and invoice numbers
type Sequence struct {
	Name  string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null"`
}
