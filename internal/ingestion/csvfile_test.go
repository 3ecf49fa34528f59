package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPreviewFile_ReturnsColumnsAndSampleRows(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "contacts.csv", "Company,Email\nAcme Corp,jane@acme.com\nWidgets Inc,bob@widgets.com\n")

	preview, err := PreviewFile(path, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"Company", "Email"}, preview.Columns)
	assert.Equal(t, 2, preview.TotalRows)
	require.Len(t, preview.SampleRows, 1)
	assert.Equal(t, "Acme Corp", preview.SampleRows[0]["Company"])
}

func TestPreviewFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "contacts.xlsx", "irrelevant")

	_, err := PreviewFile(path, 5)
	require.Error(t, err)
}

func TestImportFile_AppliesMappingAndPreservesRawData(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "contacts.csv", "Company,Email,Notes\nAcme Corp,jane@acme.com,vip\nWidgets Inc,bob@widgets.com,\n")

	result, err := ImportFile(path, "source-1", map[string]string{"Company": "company_name", "Email": "email"})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, "source-1", first.SourceID)
	assert.Equal(t, 1, first.SourceRowNumber)
	assert.Equal(t, "Acme Corp", *first.CompanyName)
	assert.Equal(t, "jane@acme.com", *first.Email)
	assert.Equal(t, "vip", first.RawData.Data["Notes"])

	second := result.Records[1]
	_, hasNotes := second.RawData.Data["Notes"]
	assert.False(t, hasNotes)
}

func TestImportFile_RejectsUnknownMappedField(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "contacts.csv", "Col\nval\n")

	_, err := ImportFile(path, "source-1", map[string]string{"Col": "nickname"})
	require.Error(t, err)
}
