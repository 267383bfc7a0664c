package repo

import (
	"context"
	"fmt"
	"strings"

	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyRepo interface {
	Create(ctx context.Context, p dom.Property) (dom.Property, error)
	GetByID(ctx context.Context, id int64) (dom.Property, error)
	Search(ctx context.Context, f dom.PropertyFilter) ([]dom.Property, error)
	Update(ctx context.Context, id int64, patch dom.Property) (dom.Property, error)
	AppendImages(ctx context.Context, id int64, cids []string) (dom.Property, error)
	AppendDocuments(ctx context.Context, id int64, cids []string) (dom.Property, error)
	SetTokenID(ctx context.Context, id int64, tokenID string) (dom.Property, error)
	SetListed(ctx context.Context, id int64, listed bool) (dom.Property, error)

	AddFavorite(ctx context.Context, userID, propertyID int64) error
	RemoveFavorite(ctx context.Context, userID, propertyID int64) error
	ListFavorites(ctx context.Context, userID int64) ([]dom.Property, error)
}

type PGPropertyRepo struct {
	db *pgxpool.Pool
}

func NewPGPropertyRepo(db *pgxpool.Pool) *PGPropertyRepo {
	return &PGPropertyRepo{db: db}
}

const propertyColumns = `id, title, description, price, currency, location,
	bedrooms, bathrooms, area, property_type, token_id, owner_address,
	is_listed, images, documents, owner_id, created_at, updated_at`

// sortColumns whitelists sort_by values; raw SQL means anything else must be rejected.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"price":      "price",
	"area":       "area",
	"bedrooms":   "bedrooms",
	"bathrooms":  "bathrooms",
	"title":      "title",
}

func scanProperty(row interface{ Scan(...any) error }) (dom.Property, error) {
	var p dom.Property
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Currency, &p.Location,
		&p.Bedrooms, &p.Bathrooms, &p.Area, &p.Type, &p.TokenID, &p.OwnerAddress,
		&p.IsListed, &p.Images, &p.Documents, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PGPropertyRepo) Create(ctx context.Context, p dom.Property) (dom.Property, error) {
	query := `
		INSERT INTO properties (title, description, price, currency, location,
			bedrooms, bathrooms, area, property_type, owner_address, images, documents, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + propertyColumns
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Documents == nil {
		p.Documents = []string{}
	}
	return scanProperty(r.db.QueryRow(ctx, query,
		p.Title, p.Description, p.Price, p.Currency, p.Location,
		p.Bedrooms, p.Bathrooms, p.Area, p.Type, p.OwnerAddress,
		p.Images, p.Documents, p.OwnerID,
	))
}

func (r *PGPropertyRepo) GetByID(ctx context.Context, id int64) (dom.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanProperty(r.db.QueryRow(ctx, query, id))
}

// Search applies the filter, whitelisted sorting and OFFSET/LIMIT paging in
// one query. Unknown sort_by falls back to created_at.
func (r *PGPropertyRepo) Search(ctx context.Context, f dom.PropertyFilter) ([]dom.Property, error) {
	query, args := buildSearchQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// buildSearchQuery turns a filter into SQL plus positional args.
func buildSearchQuery(f dom.PropertyFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		p := arg("%" + q + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %[1]s OR description ILIKE %[1]s OR location ILIKE %[1]s)", p))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*f.MaxPrice))
	}
	if f.PropertyType != "" {
		conds = append(conds, "property_type = "+arg(f.PropertyType))
	}
	if f.Bedrooms != nil {
		conds = append(conds, "bedrooms = "+arg(*f.Bedrooms))
	}
	if f.Bathrooms != nil {
		conds = append(conds, "bathrooms = "+arg(*f.Bathrooms))
	}
	if f.MinArea != nil {
		conds = append(conds, "area >= "+arg(*f.MinArea))
	}
	if f.MaxArea != nil {
		conds = append(conds, "area <= "+arg(*f.MaxArea))
	}
	if f.Location != "" {
		conds = append(conds, "location ILIKE "+arg("%"+f.Location+"%"))
	}
	if f.IsListed != nil {
		conds = append(conds, "is_listed = "+arg(*f.IsListed))
	}

	query := `SELECT ` + propertyColumns + ` FROM properties`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir)

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}
	query += " OFFSET " + arg((page-1)*limit) + " LIMIT " + arg(limit)

	return query, args
}

func (r *PGPropertyRepo) Update(ctx context.Context, id int64, patch dom.Property) (dom.Property, error) {
	query := `
		UPDATE properties SET title = $2, description = $3, price = $4, currency = $5,
			location = $6, bedrooms = $7, bathrooms = $8, area = $9, property_type = $10,
			images = $11, documents = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns
	return scanProperty(r.db.QueryRow(ctx, query, id,
		patch.Title, patch.Description, patch.Price, patch.Currency,
		patch.Location, patch.Bedrooms, patch.Bathrooms, patch.Area, patch.Type,
		patch.Images, patch.Documents,
	))
}

func (r *PGPropertyRepo) AppendImages(ctx context.Context, id int64, cids []string) (dom.Property, error) {
	query := `
		UPDATE properties SET images = images || $2::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns
	return scanProperty(r.db.QueryRow(ctx, query, id, cids))
}

func (r *PGPropertyRepo) AppendDocuments(ctx context.Context, id int64, cids []string) (dom.Property, error) {
	query := `
		UPDATE properties SET documents = documents || $2::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns
	return scanProperty(r.db.QueryRow(ctx, query, id, cids))
}

func (r *PGPropertyRepo) SetTokenID(ctx context.Context, id int64, tokenID string) (dom.Property, error) {
	query := `
		UPDATE properties SET token_id = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns
	return scanProperty(r.db.QueryRow(ctx, query, id, tokenID))
}

func (r *PGPropertyRepo) SetListed(ctx context.Context, id int64, listed bool) (dom.Property, error) {
	query := `
		UPDATE properties SET is_listed = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + propertyColumns
	return scanProperty(r.db.QueryRow(ctx, query, id, listed))
}

// AddFavorite is idempotent: re-adding an existing favorite is a no-op.
func (r *PGPropertyRepo) AddFavorite(ctx context.Context, userID, propertyID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_favorites (user_id, property_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, property_id) DO NOTHING`, userID, propertyID)
	return err
}

func (r *PGPropertyRepo) RemoveFavorite(ctx context.Context, userID, propertyID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM user_favorites WHERE user_id = $1 AND property_id = $2`,
		userID, propertyID)
	return err
}

func (r *PGPropertyRepo) ListFavorites(ctx context.Context, userID int64) ([]dom.Property, error) {
	query := `
		SELECT ` + prefixColumns("p.", propertyColumns) + `
		FROM properties p
		JOIN user_favorites f ON f.property_id = p.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func prefixColumns(prefix, cols string) string {
	parts := strings.Split(cols, ",")
	for i, c := range parts {
		parts[i] = prefix + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}
