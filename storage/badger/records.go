package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/docmill/docmill/core"
	"github.com/docmill/docmill/storage"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
//
// Returns the storage.RecordRepository interface to enforce abstraction.
func NewRecordRepository(backend *Backend) (storage.RecordRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &RecordRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *RecordRepository) Close() error {
	return nil
}

// AddDocument stores a root document.
func (r *RecordRepository) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		doc.IngestedAt = time.Now().UTC()
		if err := tx.Set(makeDocumentKey(doc.Id), storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return doc, err
}

// AddAnalysisResult stores a document's analysis result.
func (r *RecordRepository) AddAnalysisResult(ctx context.Context, result *core.AnalysisResult) (*core.AnalysisResult, error) {
	if err := core.ValidateAnalysisResult(result); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		result.IngestedAt = time.Now().UTC()
		key := makeAnalysisResultKey(result.SourceIds[0])
		if err := tx.Set(key, storage.MarshalAnalysisResult(result)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return result, err
}

// AddFragments stores a document's fragments in one transaction.
func (r *RecordRepository) AddFragments(ctx context.Context, docID core.ID, fragments ...*core.Fragment) ([]*core.Fragment, error) {
	for _, fragment := range fragments {
		if err := core.ValidateFragment(fragment); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, fragment := range fragments {
			fragment.IngestedAt = now
			key := makeFragmentKey(docID, fragment.Index)
			if err := tx.Set(key, storage.MarshalFragment(fragment)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return fragments, err
}

// AddChunks stores a document's chunks in one transaction.
func (r *RecordRepository) AddChunks(ctx context.Context, docID core.ID, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, chunk := range chunks {
			chunk.IngestedAt = now
			key := makeChunkKey(docID, chunk.Index)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// GetDocument retrieves a document by ID.
func (r *RecordRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalDocument(val)
			return err
		})
	}, false)
	return result, err
}

// ListDocuments retrieves all stored documents.
func (r *RecordRepository) ListDocuments(ctx context.Context) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				doc, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				results = append(results, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}

// GetAnalysisResult retrieves the analysis result of a document.
func (r *RecordRepository) GetAnalysisResult(ctx context.Context, docID core.ID) (*core.AnalysisResult, error) {
	var result *core.AnalysisResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeAnalysisResultKey(docID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalAnalysisResult(val)
			return err
		})
	}, false)
	return result, err
}

// GetFragments retrieves a document's fragments ordered by sequence index.
// BigEndian index encoding in the key makes the prefix scan come back in
// sequence order.
func (r *RecordRepository) GetFragments(ctx context.Context, docID core.ID) ([]*core.Fragment, error) {
	var results []*core.Fragment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialFragmentKey(docID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				fragment, err := storage.UnmarshalFragment(val)
				if err != nil {
					return err
				}
				results = append(results, fragment)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}

// GetChunks retrieves a document's chunks ordered by sequence index.
func (r *RecordRepository) GetChunks(ctx context.Context, docID core.ID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkKey(docID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				chunk, err := storage.UnmarshalChunk(val)
				if err != nil {
					return err
				}
				results = append(results, chunk)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}

// FindSimilarChunks delegates to the backend.
func (r *RecordRepository) FindSimilarChunks(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ChunkMatch, error) {
	return r.backend.FindSimilarChunks(ctx, vector, minSimilarity, limit)
}

// DeleteDocumentTree removes a document and every record derived from it.
func (r *RecordRepository) DeleteDocumentTree(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		docKey := makeDocumentKey(id)
		if _, err := tx.Get(docKey); errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		} else if err != nil {
			return err
		}

		// Collect derived keys first; deleting while iterating invalidates
		// the iterator.
		var derived [][]byte
		for _, prefix := range [][]byte{makePartialFragmentKey(id), makePartialChunkKey(id)} {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)
			for iter.Rewind(); iter.Valid(); iter.Next() {
				derived = append(derived, iter.Item().KeyCopy(nil))
			}
			iter.Close()
		}

		for _, key := range derived {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		if err := tx.Delete(makeAnalysisResultKey(id)); err != nil {
			return err
		}
		if err := tx.Delete(docKey); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
