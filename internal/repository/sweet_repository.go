package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sweet-shop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSweetNotFound     = errors.New("sweet not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockOutOfRange   = errors.New("stock would exceed the quantity column")
)

// SweetRepository defines the interface for catalog data access
type SweetRepository interface {
	Create(ctx context.Context, sweet *domain.Sweet) error
	Update(ctx context.Context, sweet *domain.Sweet) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Sweet, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Sweet, error)
	List(ctx context.Context) ([]*domain.Sweet, error)
	Search(ctx context.Context, filter domain.SweetFilter) ([]*domain.Sweet, error)
	Categories(ctx context.Context) ([]string, error)

	// AdjustQuantity adds delta to the stock of a sweet in a single statement.
	// It returns ErrInsufficientStock instead of letting quantity go negative
	// and ErrStockOutOfRange instead of overflowing the column.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.Sweet, error)
}

type sweetRepository struct {
	db *sql.DB
}

// NewSweetRepository creates a new instance of SweetRepository
func NewSweetRepository(db *sql.DB) SweetRepository {
	return &sweetRepository{db: db}
}

const sweetColumns = `id, name, category, price, quantity, description, created_at, updated_at`

// Create inserts a new sweet using parameterized queries
func (r *sweetRepository) Create(ctx context.Context, sweet *domain.Sweet) error {
	query := `
		INSERT INTO sweets (` + sweetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		sweet.ID,
		sweet.Name,
		sweet.Category,
		sweet.Price,
		sweet.Quantity,
		sweet.Description,
		sweet.CreatedAt,
		sweet.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create sweet: %w", err)
	}

	return nil
}

// Update overwrites every mutable column of an existing sweet
func (r *sweetRepository) Update(ctx context.Context, sweet *domain.Sweet) error {
	query := `
		UPDATE sweets
		SET name = $2, category = $3, price = $4, quantity = $5,
		    description = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		sweet.ID,
		sweet.Name,
		sweet.Category,
		sweet.Price,
		sweet.Quantity,
		sweet.Description,
		sweet.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update sweet: %w", err)
	}

	return expectOneRow(result, ErrSweetNotFound)
}

// Delete removes a sweet permanently
func (r *sweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sweet: %w", err)
	}

	return expectOneRow(result, ErrSweetNotFound)
}

// FindByID retrieves a sweet by ID
func (r *sweetRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id = $1`

	sweet, err := scanSweet(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSweetNotFound
		}
		return nil, fmt.Errorf("failed to find sweet by ID: %w", err)
	}

	return sweet, nil
}

// FindByIDs loads every sweet in ids that still exists, keyed by ID
func (r *sweetRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Sweet, error) {
	found := make(map[uuid.UUID]*domain.Sweet, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	sweets, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find sweets by IDs: %w", err)
	}

	for _, s := range sweets {
		found[s.ID] = s
	}
	return found, nil
}

// List retrieves all sweets, newest first
func (r *sweetRepository) List(ctx context.Context) ([]*domain.Sweet, error) {
	return r.Search(ctx, domain.SweetFilter{})
}

// Search retrieves sweets matching every set field of filter, newest first
func (r *sweetRepository) Search(ctx context.Context, filter domain.SweetFilter) ([]*domain.Sweet, error) {
	var conditions []string
	var args []any

	addCondition := func(format string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	// ILIKE gives case-insensitive substring matching
	if filter.Name != nil {
		addCondition(`name ILIKE $%d ESCAPE '\'`, likePattern(*filter.Name))
	}
	if filter.Category != nil {
		addCondition(`category ILIKE $%d ESCAPE '\'`, likePattern(*filter.Category))
	}
	if filter.MinPrice != nil {
		addCondition(`price >= $%d`, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addCondition(`price <= $%d`, *filter.MaxPrice)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM sweets
		%s
		ORDER BY created_at DESC, id
	`, sweetColumns, whereClause)

	sweets, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search sweets: %w", err)
	}

	return sweets, nil
}

// Categories returns the distinct category names in alphabetical order
func (r *sweetRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM sweets ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// AdjustQuantity applies delta with a conditional update so concurrent writers,
// including other server instances, can never drive stock below zero.
// The guard sums in bigint so an oversized delta is rejected instead of raising an int4 overflow.
func (r *sweetRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.Sweet, error) {
	query := `
		UPDATE sweets
		SET quantity = quantity + $2::bigint, updated_at = $3
		WHERE id = $1 AND quantity::bigint + $2::bigint BETWEEN 0 AND $4
		RETURNING ` + sweetColumns

	sweet, err := scanSweet(r.db.QueryRowContext(ctx, query, id, delta, time.Now().UTC(), domain.MaxQuantity))
	if err == nil {
		return sweet, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to adjust sweet quantity: %w", err)
	}

	// No row updated: either the sweet is gone or the guard rejected the delta
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	if delta > 0 {
		return nil, ErrStockOutOfRange
	}
	return nil, ErrInsufficientStock
}

func (r *sweetRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Sweet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sweets := []*domain.Sweet{}
	for rows.Next() {
		sweet, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sweet: %w", err)
		}
		sweets = append(sweets, sweet)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sweets: %w", err)
	}

	return sweets, nil
}

func scanSweet(row rowScanner) (*domain.Sweet, error) {
	sweet := &domain.Sweet{}
	var description sql.NullString
	err := row.Scan(
		&sweet.ID,
		&sweet.Name,
		&sweet.Category,
		&sweet.Price,
		&sweet.Quantity,
		&description,
		&sweet.CreatedAt,
		&sweet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		sweet.Description = &description.String
	}
	return sweet, nil
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}

// likePattern wraps term in wildcards, escaping LIKE metacharacters so they match literally
func likePattern(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}
