package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"go.etcd.io/bbolt"

	"docchat/config"
	"docchat/internal/domain"
)

var (
	bucketVectors = []byte("vectors")
	bucketChunks  = []byte("chunks")
	bucketMeta    = []byte("meta")
	keyMeta       = []byte("index_meta")
)

type metaRecord struct {
	Dimension int    `json:"dimension"`
	Version   uint64 `json:"version"`
	Count     int    `json:"count"`
}

type storedChunk struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`
	Text   string `json:"text"`
}

// Save persists the snapshot as a bbolt file inside dir. The artifact
// is written to a temp name and renamed over the live one, so a reader
// sees either the previous index or the complete new one, never a torn
// write. The persisted version counter is the previous one plus one.
// Returns a copy of the snapshot stamped with the new version.
func Save(dir string, s *Snapshot) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	version := uint64(1)
	if prev, err := ReadVersion(dir); err == nil {
		version = prev + 1
	}

	path := config.IndexFilePath(dir)
	tmpPath := path + ".tmp"
	os.Remove(tmpPath)

	db, err := bbolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		vectors, err := tx.CreateBucketIfNotExists(bucketVectors)
		if err != nil {
			return err
		}
		chunks, err := tx.CreateBucketIfNotExists(bucketChunks)
		if err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		for seq, e := range s.entries {
			key := seqKey(seq)

			vecData, err := json.Marshal(e.vector)
			if err != nil {
				return err
			}
			if err := vectors.Put(key, vecData); err != nil {
				return err
			}

			chunkData, err := json.Marshal(storedChunk{
				ID:     e.id,
				Source: e.chunk.Source,
				Page:   e.chunk.Page,
				Text:   e.chunk.Text,
			})
			if err != nil {
				return err
			}
			if err := chunks.Put(key, chunkData); err != nil {
				return err
			}
		}

		metaData, err := json.Marshal(metaRecord{
			Dimension: s.dimension,
			Version:   version,
			Count:     len(s.entries),
		})
		if err != nil {
			return err
		}
		return meta.Put(keyMeta, metaData)
	})
	if err != nil {
		db.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write index: %w", err)
	}

	if err := db.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to close index file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to replace index: %w", err)
	}

	return &Snapshot{
		dimension: s.dimension,
		version:   version,
		entries:   s.entries,
	}, nil
}

// Load reads a saved artifact back into memory. A missing artifact is
// the not-ready condition, not a generic I/O error.
func Load(dir string) (*Snapshot, error) {
	path := config.IndexFilePath(dir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, domain.ErrIndexUnavailable
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	var snapshot *Snapshot
	err = db.View(func(tx *bbolt.Tx) error {
		metaBucket := tx.Bucket(bucketMeta)
		if metaBucket == nil {
			return fmt.Errorf("index meta bucket missing")
		}
		metaData := metaBucket.Get(keyMeta)
		if metaData == nil {
			return fmt.Errorf("index meta record missing")
		}
		var meta metaRecord
		if err := json.Unmarshal(metaData, &meta); err != nil {
			return fmt.Errorf("corrupt index meta: %w", err)
		}

		vectors := tx.Bucket(bucketVectors)
		chunks := tx.Bucket(bucketChunks)
		if vectors == nil || chunks == nil {
			return fmt.Errorf("index buckets missing")
		}

		entries := make([]entry, 0, meta.Count)
		err := vectors.ForEach(func(k, v []byte) error {
			var vector []float32
			if err := json.Unmarshal(v, &vector); err != nil {
				return fmt.Errorf("corrupt vector record: %w", err)
			}

			chunkData := chunks.Get(k)
			if chunkData == nil {
				return fmt.Errorf("chunk record missing for vector %x", k)
			}
			var stored storedChunk
			if err := json.Unmarshal(chunkData, &stored); err != nil {
				return fmt.Errorf("corrupt chunk record: %w", err)
			}

			entries = append(entries, entry{
				id:     stored.ID,
				vector: vector,
				chunk: domain.Chunk{
					ID:     stored.ID,
					Source: stored.Source,
					Page:   stored.Page,
					Text:   stored.Text,
				},
			})
			return nil
		})
		if err != nil {
			return err
		}

		snapshot = &Snapshot{
			dimension: meta.Dimension,
			version:   meta.Version,
			entries:   entries,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// ReadVersion returns the persisted version counter without loading the
// vectors. A missing artifact returns domain.ErrIndexUnavailable.
func ReadVersion(dir string) (uint64, error) {
	path := config.IndexFilePath(dir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, domain.ErrIndexUnavailable
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return 0, fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	var version uint64
	err = db.View(func(tx *bbolt.Tx) error {
		metaBucket := tx.Bucket(bucketMeta)
		if metaBucket == nil {
			return fmt.Errorf("index meta bucket missing")
		}
		metaData := metaBucket.Get(keyMeta)
		if metaData == nil {
			return fmt.Errorf("index meta record missing")
		}
		var meta metaRecord
		if err := json.Unmarshal(metaData, &meta); err != nil {
			return fmt.Errorf("corrupt index meta: %w", err)
		}
		version = meta.Version
		return nil
	})
	if err != nil {
		return 0, err
	}

	return version, nil
}

// Exists reports whether an index artifact has been persisted in dir.
func Exists(dir string) bool {
	_, err := os.Stat(config.IndexFilePath(dir))
	return err == nil
}

// seqKey encodes the insertion sequence as a big-endian key, so bbolt
// iteration order matches insertion order.
func seqKey(seq int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(seq))
	return key
}
