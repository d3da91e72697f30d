package warehouse

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRows_ColumnKeyedRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"ID", "NAME", "SCORE"}).
			AddRow(int64(1), "alice", 9.5).
			AddRow(int64(2), "bob", 7.25),
	)

	rows, err := db.Query("SELECT id, name, score FROM t")
	require.NoError(t, err)
	defer rows.Close()

	records, err := scanRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(1), records[0]["ID"])
	assert.Equal(t, "alice", records[0]["NAME"])
	assert.Equal(t, 9.5, records[0]["SCORE"])
	assert.Equal(t, "bob", records[1]["NAME"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanRows_ByteSlicesBecomeStrings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"RAW"}).AddRow([]byte("binary text")),
	)

	rows, err := db.Query("SELECT raw FROM t")
	require.NoError(t, err)
	defer rows.Close()

	records, err := scanRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "binary text", records[0]["RAW"])
}

func TestScanRows_EmptyResultIsNotNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"ID"}))

	rows, err := db.Query("SELECT id FROM t WHERE 1=0")
	require.NoError(t, err)
	defer rows.Close()

	records, err := scanRows(rows)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
