package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_FlattensParentsFirst(t *testing.T) {
	items := Convert(validMinimalSchema())
	require.Len(t, items, 3)

	assert.Equal(t, "m1", items[0].ID)
	assert.Equal(t, domain.LevelMission, items[0].Level)
	assert.Empty(t, items[0].ParentID)

	assert.Equal(t, "t1", items[1].ID)
	assert.Equal(t, "m1", items[1].ParentID)
	assert.Equal(t, domain.LevelTask, items[1].Level)
	assert.Equal(t, domain.ItemPending, items[1].Status)
	assert.Empty(t, items[1].Dependencies)

	assert.Equal(t, []string{"t1"}, items[2].Dependencies)
}

func TestConvert_GeneratesMissingIDs(t *testing.T) {
	items := Convert(deepChain())
	require.Len(t, items, 5)
	for i := 1; i < len(items); i++ {
		assert.NotEmpty(t, items[i].ID)
		assert.Equal(t, items[i-1].ID, items[i].ParentID)
		assert.Equal(t, i+1, items[i].Level)
	}
	assert.Equal(t, "09:00", items[4].StartTime)
}

func TestConvert_CompletedAtOnlyForComplete(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	schema := &ImportSchema{Missions: []ItemImport{
		{Title: "Done", Status: "complete", CompletedAt: &at},
		{Title: "Open", CompletedAt: &at},
	}}

	items := Convert(schema)
	require.NotNil(t, items[0].CompletedAt)
	assert.True(t, at.Equal(*items[0].CompletedAt))
	assert.Nil(t, items[1].CompletedAt)
}

func TestParseImportSchema_YAMLAndJSON(t *testing.T) {
	yamlDoc := `
collection: artifacts/app/users/u1/mission_items
missions:
  - id: m1
    title: Apollo
    level: Mission
    progress: 50
    children:
      - id: t1
        title: Engines
        status: complete
orphans:
  - id: x
    title: Stray
`
	schema, err := ParseImportSchema([]byte(yamlDoc), "yaml")
	require.NoError(t, err)
	require.Len(t, schema.Missions, 1)
	assert.Equal(t, "Engines", schema.Missions[0].Children[0].Title)
	assert.Empty(t, ValidateImportSchema(schema))

	jsonDoc := `{"missions":[{"title":"Gemini","dependencies":[]}]}`
	schema, err = ParseImportSchema([]byte(jsonDoc), "json")
	require.NoError(t, err)
	assert.Equal(t, "Gemini", schema.Missions[0].Title)

	_, err = ParseImportSchema([]byte(jsonDoc), "toml")
	assert.Error(t, err)

	_, err = ParseImportSchema([]byte("{"), "json")
	assert.Error(t, err)
}

func TestLoadImportSchema_ByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "plan.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"missions":[{"title":"A"}]}`), 0o644))
	schema, err := LoadImportSchema(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "A", schema.Missions[0].Title)

	yamlPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("missions:\n  - title: B\n"), 0o644))
	schema, err = LoadImportSchema(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "B", schema.Missions[0].Title)

	_, err = LoadImportSchema(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
