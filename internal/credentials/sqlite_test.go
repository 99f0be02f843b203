package credentials

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SQLiteStoreTestSuite exercises the store against an in-memory database
type SQLiteStoreTestSuite struct {
	suite.Suite
	store *SQLiteStore
	ctx   context.Context
}

// SetupTest runs before each test
func (suite *SQLiteStoreTestSuite) SetupTest() {
	store, err := NewSQLiteStore(":memory:", []byte("test-secret"))
	require.NoError(suite.T(), err, "failed to create test store")
	suite.store = store
	suite.ctx = context.Background()
}

// TearDownTest runs after each test
func (suite *SQLiteStoreTestSuite) TearDownTest() {
	if suite.store != nil {
		suite.store.Close()
	}
}

func (suite *SQLiteStoreTestSuite) TestGetWithoutToken() {
	token, err := suite.store.Get(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), token)
}

func (suite *SQLiteStoreTestSuite) TestSetThenGet() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "tok1"))

	token, err := suite.store.Get(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "tok1", token)
}

func (suite *SQLiteStoreTestSuite) TestSetReplacesToken() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "first"))
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "second"))

	token, err := suite.store.Get(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "second", token)

	var count int
	err = suite.store.conn.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&count)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count, "only one token row should exist")
}

func (suite *SQLiteStoreTestSuite) TestDelete() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "tok1"))
	require.NoError(suite.T(), suite.store.Delete(suite.ctx))

	token, err := suite.store.Get(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), token)
}

func (suite *SQLiteStoreTestSuite) TestDeleteWithoutToken() {
	assert.NoError(suite.T(), suite.store.Delete(suite.ctx))
}

func (suite *SQLiteStoreTestSuite) TestValueIsSealedAtRest() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "plain-token-value"))

	var raw []byte
	err := suite.store.conn.QueryRow("SELECT value FROM credentials WHERE name = ?", TokenKey).Scan(&raw)
	require.NoError(suite.T(), err)
	assert.NotContains(suite.T(), string(raw), "plain-token-value")
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreTestSuite))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path, []byte("secret"))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "persisted"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path, []byte("secret"))
	require.NoError(t, err)
	defer reopened.Close()

	token, err := reopened.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestSQLiteStoreWrongSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path, []byte("right"))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "tok"))
	require.NoError(t, store.Close())

	other, err := NewSQLiteStore(path, []byte("wrong"))
	require.NoError(t, err)
	defer other.Close()

	_, err = other.Get(ctx)
	assert.ErrorIs(t, err, ErrUnseal)
}

func TestSQLiteStoreInvalidPath(t *testing.T) {
	// A directory cannot be opened as a database file
	_, err := NewSQLiteStore(t.TempDir(), []byte("secret"))
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Set(ctx, "tok"))
	token, _ = store.Get(ctx)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Delete(ctx))
	token, _ = store.Get(ctx)
	assert.Empty(t, token)
}
