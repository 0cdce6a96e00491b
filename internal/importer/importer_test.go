package importer

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cducdev/learn-english/internal/models"
)

func testImporter() *Importer {
	return New(slog.New(slog.DiscardHandler))
}

const sampleCSV = `id,type,question,options,answer,explanation
q1,fill_blank,A baby dog is a ___,,puppy,Common noun
q2,multiple_choice,Pick the fruit,Apple||Chair||Cloud,Apple,
q3,sentence_rearrangement,Arrange the sentence,I||am||happy,I||am||happy,
`

func TestImportCSV(t *testing.T) {
	result, err := testImporter().ImportCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Questions, 3)
	assert.Equal(t, models.FillBlank, result.Questions[0].Type)
	assert.Equal(t, models.TextAnswer("puppy"), result.Questions[0].Answer)
	assert.Equal(t, "Common noun", result.Questions[0].Explanation)

	assert.Equal(t, []string{"Apple", "Chair", "Cloud"}, result.Questions[1].Options)
	assert.Equal(t, models.TextAnswer("Apple"), result.Questions[1].Answer)

	assert.Equal(t, models.SequenceAnswer([]string{"I", "am", "happy"}), result.Questions[2].Answer)
	assert.Equal(t, []string{"I", "am", "happy"}, result.Questions[2].Options)
}

func TestImportCSVRowErrors(t *testing.T) {
	csv := `id,type,question,options,answer
q1,fill_blank,valid,,cat
,fill_blank,missing id,,cat
q3,bogus_type,bad type,,cat
q4,multiple_choice,answer not an option,A||B,C
q1,fill_blank,duplicate id,,cat
`
	result, err := testImporter().ImportCSV(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 4, result.ErrorCount)
	assert.Equal(t, "q1", result.Questions[0].ID)

	// Row numbers are 1-based and include the header.
	assert.Equal(t, 3, result.Errors[0].Row)
}

func TestImportCSVMissingColumns(t *testing.T) {
	_, err := testImporter().ImportCSV(strings.NewReader("id,question\nq1,hello\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestImportExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"id", "type", "question", "options", "answer", "accepted_answers"},
		{"apple", "fill_blank", "apple", "", "táo", "táo||quả táo"},
		{"q2", "multiple_choice", "Pick one", "Cat||Dog", "Dog", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	result, err := testImporter().ImportExcel(&buf)
	require.NoError(t, err)

	require.Len(t, result.Questions, 2)
	assert.Equal(t, []string{"táo", "quả táo"}, result.Questions[0].AcceptedAnswers)
	assert.Equal(t, models.TextAnswer("Dog"), result.Questions[1].Answer)
}

func TestImportFileDispatch(t *testing.T) {
	_, err := testImporter().ImportFile(strings.NewReader(""), "questions.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")

	// Legacy binary workbooks get a format-specific rejection instead of
	// an opaque parse failure.
	_, err = testImporter().ImportFile(strings.NewReader(""), "questions.xls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "legacy .xls format is not supported")

	result, err := testImporter().ImportFile(strings.NewReader(sampleCSV), "questions.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, result.SuccessCount)
}
