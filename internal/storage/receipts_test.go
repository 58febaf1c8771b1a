package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ReceiptStore {
	store, err := NewReceiptStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestReceiptStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	content := "paper receipt scan bytes"

	err := store.Save("rcpt_abc123", strings.NewReader(content))
	require.NoError(t, err)

	reader, err := store.Get("rcpt_abc123")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, content, string(data))
}

func TestReceiptStoreSharding(t *testing.T) {
	store := newTestStore(t)

	err := store.Save("ab_receipt", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(store.basePath, "ab", "ab_receipt"))
	require.NoError(t, err, "receipt should land in a shard named after its first two characters")
}

func TestReceiptStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("does_not_exist")
	require.Error(t, err)
}

func TestReceiptStoreDelete(t *testing.T) {
	store := newTestStore(t)

	err := store.Save("rcpt_to_delete", strings.NewReader("x"))
	require.NoError(t, err)

	err = store.Delete("rcpt_to_delete")
	require.NoError(t, err)

	_, err = store.Get("rcpt_to_delete")
	require.Error(t, err)

	err = store.Delete("rcpt_to_delete")
	require.NoError(t, err, "deleting an already deleted receipt is not an error")
}
