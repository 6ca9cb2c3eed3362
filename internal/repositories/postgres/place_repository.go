package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"petcare/internal/models"
	"petcare/internal/repositories/interfaces"
	"petcare/internal/utils"
	"petcare/pkg/logger"
)

// undefined_column
const pgUndefinedColumn = "42703"

const (
	basePlaceColumns  = "id, name, type, address, zipcode, phone, website, lat, lng, created_at"
	ratedPlaceColumns = basePlaceColumns + ", rating, review_count"
)

type placeRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

func NewPlaceRepository(db *sql.DB, log *logger.Logger) interfaces.PlaceRepository {
	return &placeRepository{db: db, logger: log}
}

func (r *placeRepository) FindInBoundingBox(ctx context.Context, box utils.BoundingBox, placeType models.PlaceType) ([]*models.StoredPlace, error) {
	conditions := []string{"lat BETWEEN $1 AND $2", "lng BETWEEN $3 AND $4"}
	args := []interface{}{box.MinLat, box.MaxLat, box.MinLng, box.MaxLng}
	if placeType != "" {
		args = append(args, string(placeType))
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	places, err := r.query(ctx, true,
		"SELECT "+ratedPlaceColumns+" FROM places WHERE "+where+
			" ORDER BY rating DESC NULLS LAST, review_count DESC NULLS LAST, name ASC", args...)
	if err == nil || !isUndefinedColumn(err) {
		return places, err
	}

	// older schemas lack the rating columns
	r.logger.WithError(err).Warn("places query without rating columns")
	return r.query(ctx, false,
		"SELECT "+basePlaceColumns+" FROM places WHERE "+where+" ORDER BY name ASC", args...)
}

func (r *placeRepository) GetByID(ctx context.Context, id string) (*models.StoredPlace, error) {
	places, err := r.query(ctx, true, "SELECT "+ratedPlaceColumns+" FROM places WHERE id = $1", id)
	if err != nil && isUndefinedColumn(err) {
		places, err = r.query(ctx, false, "SELECT "+basePlaceColumns+" FROM places WHERE id = $1", id)
	}
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return places[0], nil
}

func (r *placeRepository) query(ctx context.Context, rated bool, query string, args ...interface{}) ([]*models.StoredPlace, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var places []*models.StoredPlace
	for rows.Next() {
		place, err := scanPlace(rows, rated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read places: %w", err)
	}

	return places, nil
}

func scanPlace(rows *sql.Rows, rated bool) (*models.StoredPlace, error) {
	var (
		place       models.StoredPlace
		placeType   string
		phone       sql.NullString
		website     sql.NullString
		lat         sql.NullFloat64
		lng         sql.NullFloat64
		rating      sql.NullFloat64
		reviewCount sql.NullInt64
	)

	dest := []interface{}{
		&place.ID, &place.Name, &placeType, &place.Address, &place.Zipcode,
		&phone, &website, &lat, &lng, &place.CreatedAt,
	}
	if rated {
		dest = append(dest, &rating, &reviewCount)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	place.Type = models.PlaceType(placeType)
	if phone.Valid {
		place.Phone = &phone.String
	}
	if website.Valid {
		place.Website = &website.String
	}
	if lat.Valid && lng.Valid {
		place.Lat = &lat.Float64
		place.Lng = &lng.Float64
	}
	if rating.Valid {
		place.Rating = &rating.Float64
	}
	if reviewCount.Valid {
		count := int(reviewCount.Int64)
		place.ReviewCount = &count
	}

	return &place, nil
}

// isUndefinedColumn matches only the missing-column error, never any other failure.
func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedColumn
}
