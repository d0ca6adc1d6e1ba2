package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/customer-service/internal/domain"
)

// CustomerRepository handles persistence for customer records.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.CustomerRecord) error
	Update(ctx context.Context, customer *domain.CustomerRecord) error
	GetByID(ctx context.Context, id string) (*domain.CustomerRecord, error)
	GetByEmail(ctx context.Context, email string) (*domain.CustomerRecord, error)
	List(ctx context.Context, filter CustomerFilter) ([]domain.CustomerRecord, error)
	Delete(ctx context.Context, id string) error
	CountByAddedBy(ctx context.Context, username string) (int64, error)
	Stats(ctx context.Context, now time.Time) (*CustomerStats, error)
}

// CustomerFilter narrows the customer listing. Zero values mean no filtering.
type CustomerFilter struct {
	Search     string
	PlanType   string
	Status     string // "active" or "expired" relative to plan end date
	MemberType string // "company" or "customer"
	DateFrom   *time.Time
	DateTo     *time.Time
}

// CustomerStats aggregates dashboard numbers, derived per request.
type CustomerStats struct {
	Total         int64
	Active        int64
	Expired       int64
	CountsPerPlan map[string]int64
}

type customerRepository struct {
	db DB
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(db DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, email, phone, location, profession,
        plan_name, plan_start_date, plan_end_date, payment_screenshot,
        is_company_member, added_by, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.CustomerRecord) error {
	const query = `
        INSERT INTO customers
            (name, email, phone, location, profession, plan_name,
             plan_start_date, plan_end_date, payment_screenshot,
             is_company_member, added_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Location,
		customer.Profession,
		customer.Plan.Name,
		customer.Plan.StartDate,
		customer.Plan.EndDate,
		customer.PaymentScreenshot,
		customer.IsCompanyMember,
		customer.AddedBy,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.CustomerRecord) error {
	const query = `
        UPDATE customers
        SET name=$1, email=$2, phone=$3, location=$4, profession=$5,
            plan_name=$6, plan_start_date=$7, plan_end_date=$8,
            payment_screenshot=$9, is_company_member=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`

	return r.db.QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Location,
		customer.Profession,
		customer.Plan.Name,
		customer.Plan.StartDate,
		customer.Plan.EndDate,
		customer.PaymentScreenshot,
		customer.IsCompanyMember,
		customer.ID,
	).Scan(&customer.UpdatedAt)
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.CustomerRecord, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.CustomerRecord, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE email=$1`, email)
}

func (r *customerRepository) getOne(ctx context.Context, query string, arg any) (*domain.CustomerRecord, error) {
	var customer domain.CustomerRecord
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Location,
		&customer.Profession,
		&customer.Plan.Name,
		&customer.Plan.StartDate,
		&customer.Plan.EndDate,
		&customer.PaymentScreenshot,
		&customer.IsCompanyMember,
		&customer.AddedBy,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]domain.CustomerRecord, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	clauses := []string{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		idx := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", idx, idx, idx))
	}
	if filter.PlanType != "" {
		args = append(args, filter.PlanType)
		clauses = append(clauses, fmt.Sprintf("plan_name=$%d", len(args)))
	}
	switch filter.Status {
	case "active":
		clauses = append(clauses, "plan_end_date > NOW()")
	case "expired":
		clauses = append(clauses, "plan_end_date <= NOW()")
	}
	switch filter.MemberType {
	case "company":
		clauses = append(clauses, "is_company_member")
	case "customer":
		clauses = append(clauses, "NOT is_company_member")
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CustomerRecord
	for rows.Next() {
		var customer domain.CustomerRecord
		if err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.Phone,
			&customer.Location,
			&customer.Profession,
			&customer.Plan.Name,
			&customer.Plan.StartDate,
			&customer.Plan.EndDate,
			&customer.PaymentScreenshot,
			&customer.IsCompanyMember,
			&customer.AddedBy,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, rows.Err()
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) CountByAddedBy(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE added_by=$1`, username).Scan(&count)
	return count, err
}

func (r *customerRepository) Stats(ctx context.Context, now time.Time) (*CustomerStats, error) {
	stats := &CustomerStats{CountsPerPlan: map[string]int64{}}

	const totalsQuery = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE plan_end_date > $1),
               COUNT(*) FILTER (WHERE plan_end_date <= $1)
        FROM customers`
	if err := r.db.QueryRow(ctx, totalsQuery, now).Scan(&stats.Total, &stats.Active, &stats.Expired); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT plan_name, COUNT(*) FROM customers GROUP BY plan_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var plan string
		var count int64
		if err := rows.Scan(&plan, &count); err != nil {
			return nil, err
		}
		stats.CountsPerPlan[plan] = count
	}
	return stats, rows.Err()
}
