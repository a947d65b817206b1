package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestDefaultMapper(t *testing.T) {
	req := require.New(t)

	row := DefaultMapper("chat:chat_001", []byte("<chat/>"))
	req.Equal("CHAT", row.Type)
	req.Equal("chat_001", row.EntityID)
	req.Equal("Size: 7 bytes", row.Detail)

	row = DefaultMapper("orphan", nil)
	req.Equal("RAW", row.Type)
}

func TestDebugHandler_Lists_Prefix(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	req.NoError(db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("chat:chat_001"), []byte("a")); err != nil {
			return err
		}
		return txn.Set([]byte("user:alice"), []byte("b"))
	}))

	handler := NewDebugHandler(db, nil, func() map[string]any {
		return map[string]any{"polls": 3}
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inspect", nil))
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), "chat:chat_001")
	req.NotContains(rec.Body.String(), "user:alice")
	req.Contains(rec.Body.String(), "polls: 3")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inspect?prefix=user:", nil))
	req.Contains(rec.Body.String(), "user:alice")
}
