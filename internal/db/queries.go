package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/HanTheDev/recruit-api/internal/models"
	"github.com/google/uuid"
)

const companyColumns = `id::text, name, api_key, website, industry, culture, created_at, updated_at`

type companyScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row companyScanner) (*models.Company, error) {
	var company models.Company
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.APIKey,
		&company.Website,
		&company.Industry,
		&company.Culture,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (db *DB) GetCompanyByAPIKey(ctx context.Context, apiKey string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE api_key = $1`
	return scanCompany(db.Pool.QueryRow(ctx, query, apiKey))
}

func (db *DB) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(db.Pool.QueryRow(ctx, query, id))
}

func (db *DB) ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *company)
	}
	return companies, rows.Err()
}

func (db *DB) CreateCompany(ctx context.Context, company *models.Company) error {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}

	query := `
        INSERT INTO companies (id, name, api_key, website, industry, culture)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at
    `

	err := db.Pool.QueryRow(ctx, query,
		company.ID,
		company.Name,
		company.APIKey,
		company.Website,
		company.Industry,
		company.Culture,
	).Scan(&company.CreatedAt, &company.UpdatedAt)

	return translate(err)
}

// CompanyUpdate holds the optional fields of a partial update.
type CompanyUpdate struct {
	Name     *string `json:"name"`
	Website  *string `json:"website"`
	Industry *string `json:"industry"`
	Culture  *string `json:"culture"`
}

func (db *DB) UpdateCompany(ctx context.Context, id string, update CompanyUpdate) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	sets := []string{}
	args := []any{id}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	add("name", update.Name)
	add("website", update.Website)
	add("industry", update.Industry)
	add("culture", update.Culture)

	if len(sets) == 0 {
		return nil
	}

	query := `UPDATE companies SET ` + strings.Join(sets, ", ") + `, updated_at = NOW() WHERE id = $1`
	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteCompany(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) RotateAPIKey(ctx context.Context, id, apiKey string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE companies SET api_key = $2, updated_at = NOW() WHERE id = $1`, id, apiKey)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) WaitlistEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM waitlist WHERE lower(email) = lower($1))`, email,
	).Scan(&exists)
	return exists, err
}

func (db *DB) CreateWaitlistEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
        INSERT INTO waitlist (id, email, name, company, job_title, newsletter_consent, client_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at
    `

	err := db.Pool.QueryRow(ctx, query,
		entry.ID,
		entry.Email,
		entry.Name,
		entry.Company,
		entry.JobTitle,
		entry.NewsletterConsent,
		entry.ClientID,
	).Scan(&entry.CreatedAt)

	return translate(err)
}
