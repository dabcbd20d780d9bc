package models

import (
	"time"

	"github.com/google/uuid"

	"main/internal/domain/entity/bond"
	domain "main/internal/domain/entity/valuation"
)

// Record is the gorm model for the `valuations` table.
type Record struct {
	ID         uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	BondType   string    `gorm:"column:bond_type;type:varchar(32);not null;index"`
	Settlement time.Time `gorm:"column:settlement;type:date;not null"`
	Maturity   time.Time `gorm:"column:maturity;type:date;not null"`
	Face       float64   `gorm:"column:face;type:double precision;not null"`
	CouponRate float64   `gorm:"column:coupon_rate;type:double precision;not null"`
	Frequency  int       `gorm:"column:frequency;type:integer;not null"`
	DayCount   string    `gorm:"column:day_count;type:varchar(32);not null"`
	Clean      float64   `gorm:"column:clean_price;type:double precision;not null"`
	Dirty      float64   `gorm:"column:dirty_price;type:double precision;not null"`
	Accrued    float64   `gorm:"column:accrued_interest;type:double precision;not null"`
	YTM        float64   `gorm:"column:ytm;type:double precision;not null"`
	Source     string    `gorm:"column:source;type:varchar(16);not null"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP;index"`
}

func (Record) TableName() string {
	return "valuations"
}

func FromDomain(rec *domain.Record) Record {
	return Record{
		ID:         rec.ID,
		BondType:   rec.BondType.String(),
		Settlement: rec.Settlement,
		Maturity:   rec.Maturity,
		Face:       rec.Face,
		CouponRate: rec.CouponRate,
		Frequency:  rec.Frequency,
		DayCount:   rec.DayCount.String(),
		Clean:      rec.Clean,
		Dirty:      rec.Dirty,
		Accrued:    rec.Accrued,
		YTM:        rec.YTM,
		Source:     rec.Source,
		CreatedAt:  rec.CreatedAt,
	}
}

func (m Record) ToDomain() domain.Record {
	return domain.Record{
		ID:         m.ID,
		BondType:   bond.Type(m.BondType),
		Settlement: m.Settlement,
		Maturity:   m.Maturity,
		Face:       m.Face,
		CouponRate: m.CouponRate,
		Frequency:  m.Frequency,
		DayCount:   bond.DayCount(m.DayCount),
		Clean:      m.Clean,
		Dirty:      m.Dirty,
		Accrued:    m.Accrued,
		YTM:        m.YTM,
		Source:     m.Source,
		CreatedAt:  m.CreatedAt,
	}
}
