package table

import (
	"strings"
	"testing"

	"github.com/yyyup/panelkit/internal/testutil"
)

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"Tools", "built-in"},
		{"Rigging", ""},
		{"Cleanup Ops", "hidden"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignRight})
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	testutil.AssertGolden(t, "table_columns.golden", strings.Join(got, "\n")+"\n")
}

func TestFormatEmptyRows(t *testing.T) {
	if got := Format(nil, nil); got != nil {
		t.Fatalf("expected nil for empty input, got %#v", got)
	}
}

func TestFormatShortAlignmentListDefaultsLeft(t *testing.T) {
	got := Format([][]string{{"a", "bb"}, {"cc", "d"}}, []Alignment{AlignLeft})
	if got[0] != "a   bb" {
		t.Fatalf("expected left padding on unspecified columns, got %q", got[0])
	}
}
