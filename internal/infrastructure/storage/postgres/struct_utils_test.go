package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"makerbooks/internal/core/entity"
	"makerbooks/internal/core/id"
)

type mockDoc struct {
	entity.BaseDocument
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockDoc]()

	expectedCols := []string{
		"id", "version", "created_at", "updated_at", "code", "name",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	now := time.Now().UTC()
	doc := mockDoc{
		BaseDocument: entity.BaseDocument{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 5,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code: "TEST",
		Name: "Test Name",
	}

	m := StructToMap(doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
}
