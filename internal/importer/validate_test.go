package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Missions: []ItemImport{
			{ID: "m1", Title: "Apollo", Children: []ItemImport{
				{ID: "t1", Title: "Engines"},
				{ID: "t2", Title: "Launch", Dependencies: []string{"t1"}},
			}},
		},
	}
}

// deepChain nests Mission > Task > Subtask > Action > Step.
func deepChain() *ImportSchema {
	step := ItemImport{Title: "Step", StartTime: "09:00", EndTime: "09:30"}
	action := ItemImport{Title: "Action", StartTime: "08:00", EndTime: "08:30", Children: []ItemImport{step}}
	subtask := ItemImport{Title: "Subtask", Children: []ItemImport{action}}
	task := ItemImport{Title: "Task", Children: []ItemImport{subtask}}
	return &ImportSchema{Missions: []ItemImport{{Title: "Mission", Children: []ItemImport{task}}}}
}

func errStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_ValidDeepChainWithAgenda(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(deepChain()))
}

func TestValidateImportSchema_Empty(t *testing.T) {
	errs := ValidateImportSchema(&ImportSchema{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one mission")
}

func TestValidateImportSchema_FieldErrors(t *testing.T) {
	schema := &ImportSchema{
		Missions: []ItemImport{
			{
				Title:     "",
				Status:    "archived",
				StartDate: "June 1st",
				StartTime: "9am",
				Level:     "Task",
			},
		},
	}

	errs := errStrings(ValidateImportSchema(schema))
	assert.Contains(t, errs, "missions[0].title is required")
	assert.Contains(t, errs, `missions[0].status: invalid value "archived"`)
	assert.Contains(t, errs, `missions[0].start_date: invalid format "June 1st" (expected YYYY-MM-DD)`)
	assert.Contains(t, errs, `missions[0].start_time: invalid format "9am" (expected HH:MM)`)
	assert.Contains(t, errs, `missions[0].level: "Task" does not match its nesting (Mission)`)
	assert.Contains(t, errs, "missions[0]: a Mission cannot carry an agenda slot")
}

func TestValidateImportSchema_AgendaOnTaskRejected(t *testing.T) {
	schema := &ImportSchema{Missions: []ItemImport{
		{Title: "Apollo", Children: []ItemImport{{Title: "Standup", StartTime: "09:00"}}},
	}}
	errs := errStrings(ValidateImportSchema(schema))
	assert.Equal(t, []string{"missions[0].children[0]: a Task cannot carry an agenda slot"}, errs)
}

func TestValidateImportSchema_TooDeep(t *testing.T) {
	schema := deepChain()
	step := &schema.Missions[0].Children[0].Children[0].Children[0].Children[0]
	step.Children = []ItemImport{{Title: "Sub-step"}}

	errs := errStrings(ValidateImportSchema(schema))
	assert.Equal(t, []string{
		"missions[0].children[0].children[0].children[0].children[0].children: a Step cannot have children",
	}, errs)
}

func TestValidateImportSchema_DuplicateID(t *testing.T) {
	schema := validMinimalSchema()
	schema.Missions[0].Children[1].ID = "t1"

	errs := errStrings(ValidateImportSchema(schema))
	assert.Contains(t, errs, `missions[0].children[1].id: duplicate id "t1"`)
}

func TestValidateImportSchema_Dependencies(t *testing.T) {
	schema := validMinimalSchema()
	schema.Missions[0].Children[0].Dependencies = []string{"t1", "ghost", ""}

	errs := errStrings(ValidateImportSchema(schema))
	assert.Contains(t, errs, "missions[0].children[0].dependencies: item depends on itself")
	assert.Contains(t, errs, `missions[0].children[0].dependencies: id "ghost" not found in file`)
	assert.Contains(t, errs, "missions[0].children[0].dependencies: empty id")
}

func TestValidateImportSchema_Cycle(t *testing.T) {
	schema := validMinimalSchema()
	// t2 already depends on t1; close the loop.
	schema.Missions[0].Children[0].Dependencies = []string{"t2"}

	errs := errStrings(ValidateImportSchema(schema))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "dependencies: cycle through")
}

func TestFindCycle(t *testing.T) {
	assert.Empty(t, findCycle(map[string][]string{"a": {"b"}, "b": {"c"}}))
	assert.Empty(t, findCycle(map[string][]string{"a": {"b", "c"}, "b": {"c"}}), "diamond is not a cycle")
	assert.Equal(t, "a", findCycle(map[string][]string{"a": {"b"}, "b": {"a"}}))
}
