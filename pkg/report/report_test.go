package report

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccong2/austin-open-data/pkg/analysis"
	"github.com/ccong2/austin-open-data/pkg/catalog"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func sampleRecords() []catalog.Record {
	return []catalog.Record{
		{
			Name:           "Water Quality",
			Category:       strPtr("Environment"),
			Tags:           []string{"water"},
			ResourceType:   "dataset",
			DownloadCount:  intPtr(10),
			PageviewsTotal: intPtr(100),
		},
		{
			Name:           "Bus Routes",
			Category:       strPtr("Transport"),
			Tags:           []string{},
			ResourceType:   "map",
			DownloadCount:  intPtr(500),
			PageviewsTotal: intPtr(2000),
		},
	}
}

func mustBuild(t *testing.T, records []catalog.Record, domain string) Report {
	t.Helper()
	r, err := Build(records, Params{
		Domain:  domain,
		GroupBy: analysis.GroupByCategory,
		Theme:   DefaultTheme(),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r
}

func TestBuildPopulatesEverything(t *testing.T) {
	r := mustBuild(t, sampleRecords(), "data.example.gov")

	if r.RunID == "" {
		t.Error("RunID is empty")
	}
	if r.GeneratedAt.IsZero() {
		t.Error("GeneratedAt is zero")
	}
	if r.DatasetCount != 2 {
		t.Errorf("DatasetCount = %d, want 2", r.DatasetCount)
	}
	if len(r.Comparison) != 2 {
		t.Errorf("got %d comparison groups, want 2", len(r.Comparison))
	}
	if len(r.CatalogLinks) != 2 {
		t.Errorf("got %d catalog links, want 2", len(r.CatalogLinks))
	}
}

func TestBuildRejectsUnknownGroupKey(t *testing.T) {
	if _, err := Build(sampleRecords(), Params{GroupBy: analysis.GroupKey("owner"), Theme: DefaultTheme()}); err == nil {
		t.Error("expected error for unknown group key")
	}
}

func TestRenderTerminalMentionsGroups(t *testing.T) {
	r := mustBuild(t, sampleRecords(), "data.example.gov")

	var buf bytes.Buffer
	r.RenderTerminal(&buf)
	out := buf.String()
	for _, want := range []string{"data.example.gov", "Environment", "Transport", "dataset"} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
}

func TestWriteJSONNaNBecomesNull(t *testing.T) {
	r := mustBuild(t, nil, "empty.example.gov")

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	missing, ok := decoded["missingness"].([]any)
	if !ok || len(missing) == 0 {
		t.Fatal("missingness section absent")
	}
	first := missing[0].(map[string]any)
	if first["fraction"] != nil {
		t.Errorf("fraction = %v, want null for empty table", first["fraction"])
	}
}

func TestWriteArtifacts(t *testing.T) {
	r := mustBuild(t, sampleRecords(), "data.example.gov")

	dir := t.TempDir()
	paths, err := r.WriteArtifacts(t.Context(), dir)
	if err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}

	want := []string{"category_comparison.svg", "datatype_share.svg", "catalog_map.svg", "report.json"}
	for _, name := range want {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("artifact %s is empty", name)
		}
	}
	if len(paths) != len(want) {
		t.Errorf("got %d paths, want %d", len(paths), len(want))
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     string
	}{
		{42.5, 2, "42.50%"},
		{42.5, 0, "42%"},
		{0, 1, "0.0%"},
		{math.NaN(), 2, "n/a"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.v, tt.decimals); got != tt.want {
			t.Errorf("FormatPercent(%v, %d) = %q, want %q", tt.v, tt.decimals, got, tt.want)
		}
	}
}

func TestFormatFractionPercent(t *testing.T) {
	if got := FormatFractionPercent(0.5, 1); got != "50.0%" {
		t.Errorf("got %q, want 50.0%%", got)
	}
	if got := FormatFractionPercent(math.NaN(), 1); got != "n/a" {
		t.Errorf("got %q, want n/a", got)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.n); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestLoadThemeMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	content := "percent_decimals = 1\nsupply_color = \"#123456\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	theme, err := LoadTheme(path)
	if err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	if theme.PercentDecimals != 1 {
		t.Errorf("PercentDecimals = %d, want 1", theme.PercentDecimals)
	}
	if theme.SupplyColor != "#123456" {
		t.Errorf("SupplyColor = %q, want #123456", theme.SupplyColor)
	}
	if theme.ChartWidth != DefaultTheme().ChartWidth {
		t.Errorf("ChartWidth = %v, want default", theme.ChartWidth)
	}
}

func TestLoadThemeMissingFile(t *testing.T) {
	if _, err := LoadTheme(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing theme file")
	}
}

func TestLoadThemeEmptyPath(t *testing.T) {
	theme, err := LoadTheme("")
	if err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	if theme != DefaultTheme() {
		t.Error("empty path should return defaults")
	}
}

func TestRenderComparisonSVG(t *testing.T) {
	groups, err := analysis.CompareSupplyDemand(sampleRecords(), analysis.GroupByCategory)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(RenderComparisonSVG(groups, WithTitle("test chart")))

	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Error("output is not an SVG document")
	}
	for _, want := range []string{"Environment", "Transport", "test chart", "<rect"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderShareSVGEscapesLabels(t *testing.T) {
	shares := []analysis.UsageShare{{ResourceType: "a<b>&c", Count: 1, CountShare: 100}}
	svg := string(RenderShareSVG(shares))
	if strings.Contains(svg, "a<b>&c") {
		t.Error("label not escaped")
	}
	if !strings.Contains(svg, "a&lt;b&gt;&amp;c") {
		t.Error("escaped label absent")
	}
}

func TestCatalogMapDOT(t *testing.T) {
	links := analysis.CategoryTypeLinks(sampleRecords())
	dot := CatalogMapDOT(links)

	for _, want := range []string{"graph catalog", `"cat:Environment"`, `"type:dataset"`, "--"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}
