package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReceiptStore keeps uploaded receipt files on the local filesystem,
// sharded by the first two characters of the receipt id.
type ReceiptStore struct {
	basePath string
}

func NewReceiptStore(basePath string) (*ReceiptStore, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &ReceiptStore{basePath: basePath}, nil
}

func (rs *ReceiptStore) pathFromID(id string) string {
	shard := id
	if len(id) > 2 {
		shard = id[:2]
	}
	return filepath.Join(rs.basePath, shard, id)
}

func (rs *ReceiptStore) Save(id string, data io.Reader) error {
	filePath := rs.pathFromID(id)

	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	return err
}

func (rs *ReceiptStore) Get(id string) (io.ReadCloser, error) {
	file, err := os.Open(rs.pathFromID(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("receipt with id %s not found: %w", id, err)
		}
		return nil, err
	}

	return file, nil
}

func (rs *ReceiptStore) Delete(id string) error {
	err := os.Remove(rs.pathFromID(id))
	if os.IsNotExist(err) {
		return nil
	}

	return err
}
