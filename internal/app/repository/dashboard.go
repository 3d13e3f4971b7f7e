package repository

import (
	"context"

	"academy/internal/app/ds"

	"github.com/shopspring/decimal"
)

// Amount is a decimal that serializes as a JSON number with two decimals
type Amount struct {
	decimal.Decimal
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

type RevenueStats struct {
	ByPackage map[string]Amount `json:"by_package"`
	Total     Amount            `json:"total"`
}

type DashboardStats struct {
	TotalStudents   int64            `json:"total_students"`
	SignedContracts int64            `json:"signed_contracts"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByPackage       map[string]int64 `json:"by_package"`
	Revenue         RevenueStats     `json:"revenue"`
	RecentStudents  []ds.Student     `json:"recent_students"`
}

const recentStudentsLimit = 5

// DashboardStats aggregates enrollment numbers. Revenue is the list price
// of each package times its student count. Every status and every package
// is listed, with zero when nothing references it.
func (r *Repository) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &DashboardStats{
		ByStatus: map[string]int64{
			ds.StudentEnrolled:       0,
			ds.StudentContractSigned: 0,
			ds.StudentCompleted:      0,
		},
		ByPackage: map[string]int64{},
		Revenue:   RevenueStats{ByPackage: map[string]Amount{}},
	}

	if err := db.Model(&ds.Student{}).Count(&stats.TotalStudents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&ds.Contract{}).Count(&stats.SignedContracts).Error; err != nil {
		return nil, err
	}

	var statusRows []struct {
		Status string
		Total  int64
	}
	err := db.Model(&ds.Student{}).Select("status, COUNT(*) AS total").Group("status").Scan(&statusRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Total
	}

	var packages []ds.Package
	if err := db.Select("slug", "price").Find(&packages).Error; err != nil {
		return nil, err
	}
	for _, p := range packages {
		stats.ByPackage[p.Slug] = 0
	}

	var packageRows []struct {
		PackageType string
		Total       int64
	}
	err = db.Model(&ds.Student{}).
		Select("package_type, COUNT(*) AS total").
		Where("package_type IS NOT NULL").
		Group("package_type").
		Scan(&packageRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range packageRows {
		stats.ByPackage[row.PackageType] = row.Total
	}

	total := decimal.Zero
	for _, p := range packages {
		amount := p.Price.Mul(decimal.NewFromInt(stats.ByPackage[p.Slug]))
		stats.Revenue.ByPackage[p.Slug] = Amount{amount}
		total = total.Add(amount)
	}
	stats.Revenue.Total = Amount{total}

	err = db.Order("enrolled_at DESC").Limit(recentStudentsLimit).Find(&stats.RecentStudents).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
