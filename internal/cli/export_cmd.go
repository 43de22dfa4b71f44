package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// exportFormat is the --format flag of export.
type exportFormat string

const (
	formatYAML exportFormat = "yaml"
	formatJSON exportFormat = "json"
)

var _ pflag.Value = (*exportFormat)(nil)

func (f *exportFormat) String() string { return string(*f) }
func (f *exportFormat) Type() string   { return "format" }

func (f *exportFormat) Set(s string) error {
	switch v := exportFormat(strings.ToLower(strings.TrimSpace(s))); v {
	case formatYAML, formatJSON:
		*f = v
		return nil
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", s)
	}
}

type exportDoc struct {
	Collection string       `yaml:"collection" json:"collection"`
	ExportedAt time.Time    `yaml:"exported_at" json:"exported_at"`
	Missions   []exportNode `yaml:"missions" json:"missions"`
	Orphans    []exportNode `yaml:"orphans,omitempty" json:"orphans,omitempty"`
}

type exportNode struct {
	ID             string       `yaml:"id" json:"id"`
	Title          string       `yaml:"title" json:"title"`
	Description    string       `yaml:"description,omitempty" json:"description,omitempty"`
	Level          string       `yaml:"level" json:"level"`
	Status         string       `yaml:"status" json:"status"`
	ParentID       string       `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
	DeliverableURL string       `yaml:"deliverable_url,omitempty" json:"deliverable_url,omitempty"`
	StartDate      string       `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	DueDate        string       `yaml:"due_date,omitempty" json:"due_date,omitempty"`
	StartTime      string       `yaml:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime        string       `yaml:"end_time,omitempty" json:"end_time,omitempty"`
	CompletedAt    *time.Time   `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
	Dependencies   []string     `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Progress       *float64     `yaml:"progress,omitempty" json:"progress,omitempty"`
	Children       []exportNode `yaml:"children,omitempty" json:"children,omitempty"`
}

func newExportCmd(app *App) *cobra.Command {
	format := formatYAML

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole collection as a nested document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Missions.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			doc := buildExport(items, app.Collection, app.now())
			return writeExport(cmd.OutOrStdout(), doc, format)
		},
	}

	cmd.Flags().Var(&format, "format", "Output format (yaml|json)")
	return cmd
}

func buildExport(items []domain.Item, collection string, now time.Time) exportDoc {
	t := mission.BuildTree(items)
	visited := make(map[string]bool, len(items))

	var toNode func(n *mission.Node) exportNode
	toNode = func(n *mission.Node) exportNode {
		visited[n.ID] = true
		en := exportNode{
			ID:             n.ID,
			Title:          n.Title,
			Description:    n.Description,
			Level:          domain.LevelName(n.Level),
			Status:         string(n.Status),
			DeliverableURL: n.DeliverableURL,
			StartDate:      n.StartDate,
			DueDate:        n.DueDate,
			StartTime:      n.StartTime,
			EndTime:        n.EndTime,
			CompletedAt:    n.CompletedAt,
			Dependencies:   n.Dependencies,
		}
		if len(n.Children) > 0 {
			p := mission.Progress(n.ID, items)
			en.Progress = &p
		}
		for _, c := range n.Children {
			if visited[c.ID] {
				continue
			}
			en.Children = append(en.Children, toNode(c))
		}
		return en
	}

	doc := exportDoc{Collection: collection, ExportedAt: now.UTC(), Missions: []exportNode{}}
	for _, r := range t.RootItems {
		if visited[r.ID] {
			continue
		}
		doc.Missions = append(doc.Missions, toNode(t.ItemMap[r.ID]))
	}
	for _, o := range mission.Orphans(items, t) {
		if visited[o.ID] {
			continue
		}
		en := toNode(t.ItemMap[o.ID])
		en.ParentID = o.ParentID
		doc.Orphans = append(doc.Orphans, en)
	}
	return doc
}

func writeExport(w io.Writer, doc exportDoc, format exportFormat) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
}
