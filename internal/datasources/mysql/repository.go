package mysql

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/toolgrove/marketplace/internal/datasources"
)

var _ datasources.DatasetRepository = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Tag and flag sets are stored as JSON arrays in text columns.

func encodeStringSlice(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding string slice: %w", err)
	}
	return string(encoded), nil
}

func decodeStringSlice(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, fmt.Errorf("decoding string slice: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func encodeInt64Slice(values []int64) (string, error) {
	if values == nil {
		values = []int64{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding int64 slice: %w", err)
	}
	return string(encoded), nil
}

func decodeInt64Slice(raw sql.NullString) ([]int64, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var values []int64
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, fmt.Errorf("decoding int64 slice: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func paginationToLimitOffset(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return pageSize, (page - 1) * pageSize
}
