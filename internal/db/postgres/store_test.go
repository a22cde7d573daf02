package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/nsnsearch/internal/db"
	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/probe"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *Store) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return mock, NewStoreForTest(conn)
}

func TestNewStore_RequiresDSN(t *testing.T) {
	_, err := NewStore(Config{})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	mock, s := setupMockDB(t)
	mock.ExpectPing()

	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPing_Error(t *testing.T) {
	mock, s := setupMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err := s.Ping(context.Background())
	require.Error(t, err)
	var dbErr *db.Error
	assert.True(t, errors.As(err, &dbErr))
	assert.Equal(t, db.OpPing, dbErr.Op)
}

func TestLoadFragments_Stock(t *testing.T) {
	mock, s := setupMockDB(t)
	niins := []string{"015726371", "000000001"}

	rows := sqlmock.NewRows([]string{"niin", "fsc", "itemName", "commonName", "characteristics", "publicationDate"}).
		AddRow("015726371", "5965", "HEADSET", "HEADSET-MICROPHONE", "ELECTRICAL", nil)

	mock.ExpectQuery(`FROM pull2 WHERE niin = ANY\(\$1\)`).
		WithArgs(pq.Array(niins)).
		WillReturnRows(rows)

	batch, err := s.LoadFragments(context.Background(), nsn.TableStock, niins)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	frag := batch["015726371"]
	require.NotNil(t, frag.Stock)
	assert.Equal(t, "5965", frag.Stock.FSC)
	assert.Equal(t, "HEADSET", frag.Stock.ItemName)
	require.NotNil(t, frag.Stock.Characteristics)
	assert.Equal(t, "ELECTRICAL", *frag.Stock.Characteristics)
	assert.Nil(t, frag.Stock.PublicationDate)

	_, ok := batch["000000001"]
	assert.False(t, ok, "niin without a row must be absent")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFragments_NamesKeepsRowOrder(t *testing.T) {
	mock, s := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"niin", "item_name", "common_name", "fsc", "characteristics"}).
		AddRow("015726371", "HEADSET", nil, "5965", nil).
		AddRow("015726371", "MICROPHONE", nil, "5965", nil).
		AddRow("015726372", "CABLE", "CORD", nil, "BLACK")

	mock.ExpectQuery(`FROM names WHERE niin = ANY\(\$1\) ORDER BY niin, item_name`).
		WillReturnRows(rows)

	batch, err := s.LoadFragments(context.Background(), nsn.TableNames, []string{"015726371", "015726372"})
	require.NoError(t, err)

	first := batch["015726371"].Names
	require.Len(t, first, 2)
	assert.Equal(t, "HEADSET", first[0].ItemName)
	assert.Equal(t, "MICROPHONE", first[1].ItemName)

	second := batch["015726372"].Names
	require.Len(t, second, 1)
	assert.Equal(t, "CORD", second[0].CommonName)
	assert.Empty(t, second[0].FSC)
	require.NotNil(t, second[0].Characteristics)
}

func TestLoadFragments_Prices(t *testing.T) {
	mock, s := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"niin", "unitPrice", "ui"}).
		AddRow("015726371", "12.50", "EA")
	mock.ExpectQuery(`FROM prices`).WillReturnRows(rows)

	batch, err := s.LoadFragments(context.Background(), nsn.TablePrices, []string{"015726371"})
	require.NoError(t, err)

	price := batch["015726371"].Price
	require.NotNil(t, price)
	assert.Equal(t, "12.50", *price.UnitPrice)
	assert.Equal(t, "EA", *price.UnitOfIssue)
}

func TestLoadFragments_Aac(t *testing.T) {
	mock, s := setupMockDB(t)

	mock.ExpectQuery(`FROM aacs`).
		WillReturnRows(sqlmock.NewRows([]string{"niin", "aac"}).AddRow("015726371", "Z"))

	batch, err := s.LoadFragments(context.Background(), nsn.TableAacs, []string{"015726371"})
	require.NoError(t, err)
	require.NotNil(t, batch["015726371"].Aac)
	assert.Equal(t, "Z", batch["015726371"].Aac.AAC)
}

func TestLoadFragments_EmptyInput(t *testing.T) {
	mock, s := setupMockDB(t)

	batch, err := s.LoadFragments(context.Background(), nsn.TableWeights, nil)
	require.NoError(t, err)
	assert.Empty(t, batch)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFragments_UnknownTable(t *testing.T) {
	_, s := setupMockDB(t)

	_, err := s.LoadFragments(context.Background(), nsn.Table("users"), []string{"015726371"})
	assert.ErrorIs(t, err, db.ErrUnknownTable)
}

func TestLoadFragments_QueryError(t *testing.T) {
	mock, s := setupMockDB(t)
	mock.ExpectQuery(`FROM weights`).WillReturnError(errors.New("statement timeout"))

	_, err := s.LoadFragments(context.Background(), nsn.TableWeights, []string{"015726371"})
	require.Error(t, err)
	var dbErr *db.Error
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, db.OpSelect, dbErr.Op)
	assert.Contains(t, err.Error(), "weights")
}

func TestProbe_NIINPrefix(t *testing.T) {
	mock, s := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT niin FROM pull2 WHERE niin LIKE $1 ORDER BY niin LIMIT $2`)).
		WithArgs("01572%", 20).
		WillReturnRows(sqlmock.NewRows([]string{"niin"}).AddRow("015720001").AddRow("015726371"))

	got, err := s.Probe(context.Background(), probe.Probe{
		Table: nsn.TableStock, Match: probe.NIINPrefix, Value: "01572", Limit: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"015720001", "015726371"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProbe_NameSubstringWithClassFilter(t *testing.T) {
	mock, s := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT niin FROM names WHERE item_name ILIKE $1 AND fsc = $2 ORDER BY niin LIMIT $3`)).
		WithArgs("%O\\_RING%", "5330", 10).
		WillReturnRows(sqlmock.NewRows([]string{"niin"}))

	got, err := s.Probe(context.Background(), probe.Probe{
		Table: nsn.TableNames, Match: probe.NameSubstring, Value: "O_RING", FSC: "5330", Limit: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProbe_Unsupported(t *testing.T) {
	_, s := setupMockDB(t)

	_, err := s.Probe(context.Background(), probe.Probe{
		Table: nsn.TablePrices, Match: probe.NamePrefix, Value: "BOLT", Limit: 10,
	})
	assert.ErrorIs(t, err, db.ErrUnsupportedOp)
}

func TestBuildProbe(t *testing.T) {
	tests := []struct {
		name  string
		probe probe.Probe
		query string
		args  []any
	}{
		{
			name:  "class code on fscs",
			probe: probe.Probe{Table: nsn.TableFscs, Match: probe.ClassCode, Value: "5965", Limit: 5},
			query: "SELECT DISTINCT niin FROM fscs WHERE fsc = $1 ORDER BY niin LIMIT $2",
			args:  []any{"5965", 5},
		},
		{
			name:  "name prefix on stock",
			probe: probe.Probe{Table: nsn.TableStock, Match: probe.NamePrefix, Value: "HEAD SET", Limit: 5},
			query: `SELECT DISTINCT niin FROM pull2 WHERE "itemName" ILIKE $1 ORDER BY niin LIMIT $2`,
			args:  []any{"HEAD SET%", 5},
		},
		{
			name:  "niin prefix on prices",
			probe: probe.Probe{Table: nsn.TablePrices, Match: probe.NIINPrefix, Value: "0157", Limit: 7},
			query: "SELECT DISTINCT niin FROM prices WHERE niin LIKE $1 ORDER BY niin LIMIT $2",
			args:  []any{"0157%", 7},
		},
		{
			name:  "escapes wildcards",
			probe: probe.Probe{Table: nsn.TableStock, Match: probe.NamePrefix, Value: `50%\`, Limit: 1},
			query: `SELECT DISTINCT niin FROM pull2 WHERE "itemName" ILIKE $1 ORDER BY niin LIMIT $2`,
			args:  []any{`50\%\\%`, 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := buildProbe(tc.probe)
			require.NoError(t, err)
			assert.Equal(t, tc.query, query)
			assert.Equal(t, tc.args, args)
		})
	}
}
