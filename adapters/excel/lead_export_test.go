package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nambiararyan24/portfolio/models"
)

func TestWriteLeads(t *testing.T) {
	company := "Acme"
	score := 55
	leads := []models.Lead{
		{
			ID: uuid.New(), Name: "Jo Doe", Email: "jo@acme.io", Company: &company,
			ProjectType: "Web Application", Message: "Need a dashboard", LeadScore: &score,
			CreatedAt: time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			ID: uuid.New(), Name: "Sam", Email: "sam@x.io", ProjectType: "Other",
			Message: "hello there", Read: true, NewsletterSignup: true,
			CreatedAt: time.Date(2025, 4, 3, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLeads(&buf, leads))

	rows, err := ReadLeadRows(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-04-02 09:30", rows[0][0])
	assert.Equal(t, "Acme", rows[0][4])
	assert.Equal(t, "55", rows[0][10])
	assert.Equal(t, "no", rows[0][11])

	assert.Equal(t, "", rows[1][4])
	assert.Equal(t, "yes", rows[1][9])
	assert.Equal(t, "yes", rows[1][11])
}

func TestWriteLeadsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeads(&buf, nil))
	rows, err := ReadLeadRows(&buf)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "leads-2025-01-31.xlsx", ExportFileName(time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)))
}
