package bonds

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "main/internal/domain/entity/bond"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrBondNotFound = errors.New("bond not found")

// Repository stores bond definitions in the `bonds` table.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

func (r *Repository) CreateBond(ctx context.Context, def *domain.Definition) error {
	if def == nil {
		return errors.New("bond definition is nil")
	}
	const query = `
		INSERT INTO bonds (
			uid, ticker, maturity, issue_date, face, coupon_rate, frequency,
			day_count, eom_rule, first_coupon, last_coupon, bond_type,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())`

	_, err := r.pool.Exec(ctx, query,
		def.UID,
		def.Ticker,
		def.Maturity,
		def.IssueDate,
		def.Face,
		def.CouponRate,
		int(def.Frequency),
		def.DayCount.String(),
		def.EOMRule,
		def.FirstCoupon,
		def.LastCoupon,
		def.Type.String(),
	)
	if err != nil {
		return fmt.Errorf("insert bond: %w", err)
	}
	return nil
}

func (r *Repository) GetBond(ctx context.Context, uid uuid.UUID) (*domain.Definition, error) {
	const query = `
		SELECT uid, ticker, maturity, issue_date, face, coupon_rate, frequency,
		       day_count, eom_rule, first_coupon, last_coupon, bond_type,
		       created_at, updated_at, deleted_at
		FROM bonds
		WHERE uid = $1 AND deleted_at IS NULL`

	row := r.pool.QueryRow(ctx, query, uid)
	def, err := scanBond(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBondNotFound
		}
		return nil, err
	}
	return def, nil
}

func (r *Repository) UpdateBond(ctx context.Context, def *domain.Definition) error {
	if def == nil {
		return errors.New("bond definition is nil")
	}
	const query = `
		UPDATE bonds
		SET ticker = $2,
		    maturity = $3,
		    issue_date = $4,
		    face = $5,
		    coupon_rate = $6,
		    frequency = $7,
		    day_count = $8,
		    eom_rule = $9,
		    first_coupon = $10,
		    last_coupon = $11,
		    bond_type = $12,
		    updated_at = now()
		WHERE uid = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query,
		def.UID,
		def.Ticker,
		def.Maturity,
		def.IssueDate,
		def.Face,
		def.CouponRate,
		int(def.Frequency),
		def.DayCount.String(),
		def.EOMRule,
		def.FirstCoupon,
		def.LastCoupon,
		def.Type.String(),
	)
	if err != nil {
		return fmt.Errorf("update bond: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBondNotFound
	}
	return nil
}

func (r *Repository) DeleteBond(ctx context.Context, uid uuid.UUID) error {
	const query = `
		UPDATE bonds
		SET deleted_at = now()
		WHERE uid = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, uid)
	if err != nil {
		return fmt.Errorf("delete bond: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBondNotFound
	}
	return nil
}

func (r *Repository) ListBonds(ctx context.Context) ([]domain.Definition, error) {
	const query = `
		SELECT uid, ticker, maturity, issue_date, face, coupon_rate, frequency,
		       day_count, eom_rule, first_coupon, last_coupon, bond_type,
		       created_at, updated_at, deleted_at
		FROM bonds
		WHERE deleted_at IS NULL
		ORDER BY ticker`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bonds: %w", err)
	}
	defer rows.Close()

	var defs []domain.Definition
	for rows.Next() {
		def, err := scanBond(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, *def)
	}
	return defs, rows.Err()
}

func scanBond(row pgx.Row) (*domain.Definition, error) {
	var (
		def       domain.Definition
		frequency int
		dayCount  string
		bondType  string
		issueDate *time.Time
		first     *time.Time
		last      *time.Time
		deletedAt *time.Time
	)
	err := row.Scan(
		&def.UID,
		&def.Ticker,
		&def.Maturity,
		&issueDate,
		&def.Face,
		&def.CouponRate,
		&frequency,
		&dayCount,
		&def.EOMRule,
		&first,
		&last,
		&bondType,
		&def.CreatedAt,
		&def.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	freq, err := domain.NewFrequency(frequency)
	if err != nil {
		return nil, fmt.Errorf("stored bond %s: %w", def.UID, err)
	}
	dc, err := domain.NewDayCount(dayCount)
	if err != nil {
		return nil, fmt.Errorf("stored bond %s: %w", def.UID, err)
	}

	def.Frequency = freq
	def.DayCount = dc
	def.Type = domain.NewType(bondType)
	def.IssueDate = issueDate
	def.FirstCoupon = first
	def.LastCoupon = last
	def.DeletedAt = deletedAt
	return &def, nil
}
