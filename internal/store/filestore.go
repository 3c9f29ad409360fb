package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/models"
)

// FileStore keeps every order in a single JSON file. Writes go through
// a temp file followed by a rename so a crash mid-write never leaves a
// truncated store behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileData struct {
	Orders map[string]*models.Order `json:"orders"`
}

func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	s := &FileStore{path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Create(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data.Orders[order.OrderNumber]; ok {
		return ErrExists
	}
	data.Orders[order.OrderNumber] = clone(order)
	return s.save(data)
}

func (s *FileStore) Get(ctx context.Context, orderNumber string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	order, ok := data.Orders[orderNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(order), nil
}

func (s *FileStore) Update(ctx context.Context, orderNumber string, patch Patch) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	order, ok := data.Orders[orderNumber]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(order)
	if err := s.save(data); err != nil {
		return nil, err
	}
	return clone(order), nil
}

func (s *FileStore) load() (*fileData, error) {
	data := &fileData{Orders: make(map[string]*models.Order)}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read order store: %w", err)
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("parse order store: %w", err)
	}
	if data.Orders == nil {
		data.Orders = make(map[string]*models.Order)
	}
	return data, nil
}

func (s *FileStore) save(data *fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode order store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".orders-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace order store: %w", err)
	}
	return nil
}
