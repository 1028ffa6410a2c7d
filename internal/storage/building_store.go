// Package storage хранит сгенерированные пакеты зданий в BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/annel0/buildgen/internal/building"
	"github.com/annel0/buildgen/internal/logging"
	"github.com/dgraph-io/badger/v3"
)

var (
	// ErrNotFound - запись отсутствует в хранилище
	ErrNotFound = errors.New("запись не найдена")
	// ErrNotReady - хранилище закрыто
	ErrNotReady = errors.New("хранилище не готово")
)

// Record - сохраняемое здание вместе с метаданными записи
type Record struct {
	Building *building.Building `json:"building"`
	Codec    string             `json:"codec"`
	StoredAt time.Time          `json:"stored_at"`
}

// BatchRecord - индекс пакета: сколько зданий сгенерировано по сиду и их ID
type BatchRecord struct {
	Namespace string    `json:"namespace"`
	Seed      int64     `json:"seed"`
	Count     int       `json:"count"`
	IDs       []string  `json:"ids"`
	StoredAt  time.Time `json:"stored_at"`
}

// BuildingStore представляет собой хранилище зданий поверх BadgerDB.
// Ключи разделены пространством имён (отпечатком настроек генерации),
// поэтому пакеты одного сида при разных настройках не перекрываются.
type BuildingStore struct {
	db        *badger.DB
	dbPath    string
	codec     Codec
	namespace string
	log       *logging.Logger
	mutex     sync.RWMutex
	isReady   bool
}

// NewBuildingStore открывает (или создаёт) хранилище в каталоге dataPath/buildings
func NewBuildingStore(dataPath string, codec Codec, namespace string) (*BuildingStore, error) {
	if codec == nil {
		codec = rawCodec{}
	}

	dbPath := filepath.Join(dataPath, "buildings")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	logger := logging.GetComponentLogger("storage")
	logger.Info("Хранилище зданий открыто: %s (кодек %s, пространство %q)", dbPath, codec.Name(), namespace)

	return &BuildingStore{
		log:       logger,
		db:        db,
		dbPath:    dbPath,
		codec:     codec,
		namespace: namespace,
		isReady:   true,
	}, nil
}

// Close закрывает хранилище данных
func (s *BuildingStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}

	s.isReady = false
	return s.db.Close()
}

func (s *BuildingStore) buildingKey(seed int64, index int) []byte {
	return []byte(fmt.Sprintf("building:%s:%d:%d", s.namespace, seed, index))
}

func (s *BuildingStore) batchKey(seed int64) []byte {
	return []byte(fmt.Sprintf("batch:%s:%d", s.namespace, seed))
}

// SaveBatch атомарно сохраняет все здания пакета и его индекс
func (s *BuildingStore) SaveBatch(seed int64, buildings []*building.Building) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrNotReady
	}

	now := time.Now().UTC()
	batch := BatchRecord{
		Namespace: s.namespace,
		Seed:      seed,
		Count:     len(buildings),
		IDs:       make([]string, 0, len(buildings)),
		StoredAt:  now,
	}

	entries := make(map[string][]byte, len(buildings)+1)
	for _, b := range buildings {
		if b == nil {
			continue
		}
		data, err := json.Marshal(Record{Building: b, Codec: s.codec.Name(), StoredAt: now})
		if err != nil {
			return fmt.Errorf("ошибка сериализации здания %d: %w", b.Index, err)
		}
		entries[string(s.buildingKey(seed, b.Index))] = s.codec.Encode(data)
		batch.IDs = append(batch.IDs, b.ID)
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("ошибка сериализации индекса пакета: %w", err)
	}
	entries[string(s.batchKey(seed))] = data

	err = s.db.Update(func(txn *badger.Txn) error {
		for key, value := range entries {
			if err := txn.Set([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	s.log.Debug("Сохранён пакет seed=%d (%d зданий)", seed, len(batch.IDs))
	return nil
}

// LoadBuilding загружает здание по сиду пакета и номеру
func (s *BuildingStore) LoadBuilding(seed int64, index int) (*building.Building, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrNotReady
	}

	data, err := s.get(s.buildingKey(seed, index))
	if err != nil {
		return nil, err
	}

	raw, err := s.codec.Decode(data)
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("ошибка десериализации здания: %w", err)
	}
	if rec.Building == nil {
		return nil, fmt.Errorf("пустая запись здания %d:%d", seed, index)
	}
	return rec.Building, nil
}

// LoadBatchInfo возвращает индекс пакета
func (s *BuildingStore) LoadBatchInfo(seed int64) (*BatchRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrNotReady
	}

	data, err := s.get(s.batchKey(seed))
	if err != nil {
		return nil, err
	}

	var batch BatchRecord
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("ошибка десериализации индекса пакета: %w", err)
	}
	return &batch, nil
}

// LoadBatch загружает все здания пакета в порядке номеров
func (s *BuildingStore) LoadBatch(seed int64) ([]*building.Building, error) {
	batch, err := s.LoadBatchInfo(seed)
	if err != nil {
		return nil, err
	}

	buildings := make([]*building.Building, 0, batch.Count)
	for i := 0; i < batch.Count; i++ {
		b, err := s.LoadBuilding(seed, i)
		if err != nil {
			return nil, fmt.Errorf("здание %d пакета %d: %w", i, seed, err)
		}
		buildings = append(buildings, b)
	}
	return buildings, nil
}

// get читает значение ключа; отсутствие ключа превращается в ErrNotFound
func (s *BuildingStore) get(key []byte) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}
	return data, nil
}
