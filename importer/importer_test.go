package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedalboard/core"
)

const jsonScenario = `{
  "board": {"widthInches": 20, "depthInches": 10},
  "catalog": [{"id": "od", "category": "overdrive", "widthInches": 3, "depthInches": 5}],
  "placed": [{"id": "a", "pedalId": "od", "x": 1, "y": 1, "chainPosition": 1, "isActive": true}],
  "routing": {"useEffectsLoop": true, "use4CableMethod": false},
  "context": {"ampHasEffectsLoop": true, "useEffectsLoop": true}
}`

func TestImporterRegistry_DetectFormat(t *testing.T) {
	r := NewImporterRegistry()

	imp, err := r.DetectFormat(jsonScenario)
	require.NoError(t, err)
	assert.Equal(t, "JSON", imp.GetFormatName())

	imp, err = r.DetectFormat("board:\n  widthInches: 10\n  depthInches: 5\n")
	require.NoError(t, err)
	assert.Equal(t, "YAML", imp.GetFormatName())

	_, err = r.DetectFormat("just some text")
	assert.Error(t, err)

	assert.Equal(t, []string{"JSON", "YAML", "Markdown"}, r.GetAvailableFormats())
}

func TestJSONImporter(t *testing.T) {
	s, err := NewImporterRegistry().Import(jsonScenario)
	require.NoError(t, err)
	assert.Equal(t, 20.0, s.Board.WidthInches)
	require.Len(t, s.Placed, 1)
	assert.Equal(t, "od", s.Placed[0].PedalID)
	assert.True(t, s.Context.UseEffectsLoop)
	assert.True(t, s.Routing.UseEffectsLoop)

	pedal, ok := s.PedalCatalog().Lookup("od")
	require.True(t, ok)
	assert.Equal(t, core.CategoryOverdrive, pedal.Category)
}

func TestImportFile_YAML(t *testing.T) {
	s, err := NewImporterRegistry().ImportFile(filepath.Join("testdata", "basic.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "classic-24", s.Board.ID)
	assert.Len(t, s.Board.Rails, 2)
	assert.Len(t, s.Catalog, 4)
	assert.Len(t, s.Placed, 4)
	assert.True(t, s.Routing.RoutePower)
	assert.True(t, s.Context.AmpHasEffectsLoop)

	klon, ok := s.PedalCatalog().Lookup("klon")
	require.True(t, ok)
	j, ok := klon.Jack(core.JackInput)
	require.True(t, ok)
	assert.Equal(t, core.SideRight, j.Side)
	assert.Equal(t, 30.0, j.PositionPercent)
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		content string
		errMsg  string
	}{
		{"unknown yaml field", "yaml", "board: {widthInches: 1, depthInches: 1}\nbogus: 1\n", "bogus"},
		{"unknown json field", "json", `{"board": {"widthInches": 1, "depthInches": 1}, "bogus": 1}`, "bogus"},
		{"bad board", "yaml", "board: {widthInches: 0, depthInches: 1}\n", "dimensions must be positive"},
		{"rail off board", "yaml", "board: {widthInches: 5, depthInches: 5, rails: [{positionInches: 7}]}\n", "outside"},
		{"duplicate placement", "yaml", "board: {widthInches: 5, depthInches: 5}\nplaced: [{id: a, pedalId: x}, {id: a, pedalId: y}]\n", "more than once"},
		{"catalog without id", "json", `{"board": {"widthInches": 5, "depthInches": 5}, "catalog": [{"widthInches": 1, "depthInches": 1}]}`, "no id"},
		{"flat pedal", "yaml", "board: {widthInches: 5, depthInches: 5}\ncatalog: [{id: x, widthInches: 0, depthInches: 1}]\n", "dimensions must be positive"},
		{"unknown format", "toml", "", "unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImporterRegistry().ImportWithFormat(tt.content, tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestImportFile_FallsBackToDetection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.txt")
	require.NoError(t, os.WriteFile(path, []byte(jsonScenario), 0o644))
	s, err := NewImporterRegistry().ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.Board.DepthInches)

	_, err = NewImporterRegistry().ImportFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read scenario")
}

func TestImportFile_Markdown(t *testing.T) {
	s, err := NewImporterRegistry().ImportFile(filepath.Join("testdata", "board.md"))
	require.NoError(t, err)
	assert.Equal(t, "mini", s.Board.ID)
	assert.Len(t, s.Placed, 2)

	imp, err := NewImporterRegistry().DetectFormat("# notes\n\n```pedalboard\n" + jsonScenario + "\n```\n")
	require.NoError(t, err)
	assert.Equal(t, "Markdown", imp.GetFormatName())

	_, err = NewMarkdownImporter().Import("```pedalboard\nhello\n```")
	assert.ErrorContains(t, err, "not a scenario")

	_, err = NewMarkdownImporter().Import("no blocks here")
	assert.ErrorContains(t, err, "no ```pedalboard block")
}
