package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected rune
	}{
		{"more commas", "a,b;c,d,e", ','},
		{"more semicolons", "a;b;c,d", ';'},
		{"tie goes to comma", "a,b;c;d,e", ','},
		{"no delimiters", "justonefield", ','},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectDelimiter(tc.line))
		})
	}
}

func TestIsHeaderRow(t *testing.T) {
	t.Run("english header", func(t *testing.T) {
		assert.True(t, IsHeaderRow("Date,Description,Amount"))
		assert.True(t, IsHeaderRow("date;description;category"))
	})

	t.Run("greek header", func(t *testing.T) {
		assert.True(t, IsHeaderRow("Ημ/νια;Περιγραφη;Ποσο"))
	})

	t.Run("data row is not a header", func(t *testing.T) {
		assert.False(t, IsHeaderRow("2024-01-15,Groceries,-45.50"))
	})

	t.Run("date alone is not enough", func(t *testing.T) {
		assert.False(t, IsHeaderRow("date,value1,value2"))
	})
}

func TestParseLine(t *testing.T) {
	t.Run("quoted field containing delimiter", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b,c", "d"}, ParseLine(`a,"b,c",d`, ','))
	})

	t.Run("escaped quote inside quoted field", func(t *testing.T) {
		assert.Equal(t, []string{"a", `b"c`, "d"}, ParseLine(`a,"b""c",d`, ','))
	})

	t.Run("trailing empty field", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", ""}, ParseLine("a,b,", ','))
	})

	t.Run("semicolon delimiter keeps commas as data", func(t *testing.T) {
		assert.Equal(t, []string{"1,50", "desc"}, ParseLine("1,50;desc", ';'))
	})

	t.Run("single field", func(t *testing.T) {
		assert.Equal(t, []string{"only"}, ParseLine("only", ','))
	})
}

func TestBuildPreview(t *testing.T) {
	t.Run("basic preview", func(t *testing.T) {
		text := "Date,Description,Amount\n2024-01-15,Coffee,4.50\n2024-01-16,Lunch,12.00\n"

		preview, err := BuildPreview(text)
		require.NoError(t, err)

		assert.Equal(t, []string{"Date", "Description", "Amount"}, preview.Headers)
		assert.Equal(t, ',', preview.Delimiter)
		assert.Equal(t, 2, preview.TotalRows)
		assert.Len(t, preview.SampleRows, 2)
		assert.False(t, preview.HasNegativeAmounts)
	})

	t.Run("sample capped at five rows", func(t *testing.T) {
		text := "Date,Description,Amount\n"
		for i := 0; i < 8; i++ {
			text += "2024-01-15,Coffee,4.50\n"
		}

		preview, err := BuildPreview(text)
		require.NoError(t, err)
		assert.Len(t, preview.SampleRows, SampleRowLimit)
		assert.Equal(t, 8, preview.TotalRows)
	})

	t.Run("detects negative amounts in any column", func(t *testing.T) {
		text := "Date,Note,Amount\n2024-01-15,-12 adjustment,4.50\n"

		preview, err := BuildPreview(text)
		require.NoError(t, err)
		assert.True(t, preview.HasNegativeAmounts)
	})

	t.Run("negative behind currency symbol", func(t *testing.T) {
		text := "Date,Description,Amount\n2024-01-15,Coffee,€-4.50\n"

		preview, err := BuildPreview(text)
		require.NoError(t, err)
		assert.True(t, preview.HasNegativeAmounts)
	})

	t.Run("blank and quote-only rows excluded from count", func(t *testing.T) {
		text := "Date,Description,Amount\n2024-01-15,Coffee,4.50\n\n\"\",\"\",\"\"\n"

		preview, err := BuildPreview(text)
		require.NoError(t, err)
		assert.Equal(t, 1, preview.TotalRows)
	})

	t.Run("windows line endings", func(t *testing.T) {
		text := "Date,Description,Amount\r\n2024-01-15,Coffee,4.50\r\n"

		preview, err := BuildPreview(text)
		require.NoError(t, err)
		assert.Equal(t, 1, preview.TotalRows)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := BuildPreview("\n\n")
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("semicolon file", func(t *testing.T) {
		text := "Ημ/νια;Περιγραφη;Ποσο\n15/01/2024;Σουπερμαρκετ;45,50\n"

		preview, err := BuildPreview(text)
		require.NoError(t, err)
		assert.Equal(t, ';', preview.Delimiter)
		assert.Equal(t, []string{"Ημ/νια", "Περιγραφη", "Ποσο"}, preview.Headers)
	})
}
