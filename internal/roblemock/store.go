package roblemock

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Row is one schemaless record: every table shares this shape with the
// payload held as JSON, which is how the real Roble database API behaves.
type Row struct {
	ID        string         `gorm:"primaryKey;size:36"`
	TableName string         `gorm:"size:64;index:idx_rows_table"`
	Data      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

var ErrRowNotFound = errors.New("row not found")

// Store persists rows in Postgres and answers equality-filtered reads.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("failed to migrate rows table: %w", err)
	}
	return &Store{db: db}, nil
}

// Read returns every record in table matching all filter equalities. The
// filters are applied against the JSON payload in the database.
func (s *Store) Read(table string, filter map[string]any) ([]json.RawMessage, error) {
	q := s.db.Where("table_name = ?", table)
	for key, value := range filter {
		q = q.Where(datatypes.JSONQuery("data").Equals(value, key))
	}

	var rows []Row
	if err := q.Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	records := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		records = append(records, json.RawMessage(row.Data))
	}
	return records, nil
}

// Insert stores one record, assigning the id and timestamps server-side.
func (s *Store) Insert(table string, record json.RawMessage) (json.RawMessage, error) {
	payload := map[string]any{}
	if err := json.Unmarshal(record, &payload); err != nil {
		return nil, fmt.Errorf("invalid record payload: %w", err)
	}

	now := time.Now().UTC()
	payload["id"] = uuid.NewString()
	payload["created_at"] = now.Format(time.RFC3339)
	payload["updated_at"] = now.Format(time.RFC3339)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	row := Row{
		ID:        payload["id"].(string),
		TableName: table,
		Data:      datatypes.JSON(data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to insert row: %w", err)
	}
	return json.RawMessage(row.Data), nil
}

// Update merges the patch into the record's JSON payload. Null patch
// values are dropped rather than stored, matching sparse patch semantics.
func (s *Store) Update(table, id string, updates json.RawMessage) (json.RawMessage, error) {
	var row Row
	err := s.db.Where("table_name = ? AND id = ?", table, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load row: %w", err)
	}

	payload := map[string]any{}
	if err := json.Unmarshal(row.Data, &payload); err != nil {
		return nil, fmt.Errorf("stored payload corrupt: %w", err)
	}

	patch := map[string]any{}
	if err := json.Unmarshal(updates, &patch); err != nil {
		return nil, fmt.Errorf("invalid update payload: %w", err)
	}
	for key, value := range patch {
		if value == nil {
			continue
		}
		payload[key] = value
	}
	payload["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	row.Data = datatypes.JSON(data)
	if err := s.db.Save(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to update row: %w", err)
	}
	return json.RawMessage(row.Data), nil
}
