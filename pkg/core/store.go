package core

import (
	"context"

	"github.com/google/uuid"
	"github.com/vecbase/vecbase/pkg/index"
)

// store is the in-memory corpus: four identifier-keyed tables (libraries,
// documents, chunks, indices) guarded by a single writer-preferring
// reader-writer lock. The chunk table is ground truth; Document and
// Library lists are references into it by identifier, never owning
// pointers, so cascading deletes cannot leave cyclic ownership behind.
type store struct {
	lock *rwLock

	libraries map[uuid.UUID]Library
	documents map[uuid.UUID]Document
	chunks    map[uuid.UUID]Chunk
	indices   map[uuid.UUID]index.Index
}

func newStore() *store {
	return &store{
		lock:      newRWLock(),
		libraries: make(map[uuid.UUID]Library),
		documents: make(map[uuid.UUID]Document),
		chunks:    make(map[uuid.UUID]Chunk),
		indices:   make(map[uuid.UUID]index.Index),
	}
}

// ---------- libraries ----------

func (s *store) saveLibrary(ctx context.Context, lib Library) error {
	if err := s.lock.lock(ctx); err != nil {
		return err
	}
	defer s.lock.unlock()
	s.libraries[lib.ID] = lib
	return nil
}

func (s *store) getLibrary(ctx context.Context, id uuid.UUID) (Library, bool, error) {
	if err := s.lock.rLock(ctx); err != nil {
		return Library{}, false, err
	}
	defer s.lock.rUnlock()
	lib, ok := s.libraries[id]
	return lib, ok, nil
}

func (s *store) listLibraries(ctx context.Context) ([]Library, error) {
	if err := s.lock.rLock(ctx); err != nil {
		return nil, err
	}
	defer s.lock.rUnlock()
	out := make([]Library, 0, len(s.libraries))
	for _, lib := range s.libraries {
		out = append(out, lib)
	}
	return out, nil
}

// deleteLibrary removes a library and cascades the delete to its documents,
// their chunks, and the installed index. Returns false if the library did
// not exist.
func (s *store) deleteLibrary(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := s.lock.lock(ctx); err != nil {
		return false, err
	}
	defer s.lock.unlock()

	lib, ok := s.libraries[id]
	if !ok {
		return false, nil
	}
	delete(s.libraries, id)
	for _, docID := range lib.DocumentIDs {
		doc, ok := s.documents[docID]
		if !ok {
			continue
		}
		delete(s.documents, docID)
		for _, chunkID := range doc.ChunkIDs {
			delete(s.chunks, chunkID)
		}
	}
	delete(s.indices, id)
	return true, nil
}

// ---------- documents ----------

func (s *store) saveDocument(ctx context.Context, doc Document) error {
	if err := s.lock.lock(ctx); err != nil {
		return err
	}
	defer s.lock.unlock()
	s.documents[doc.ID] = doc
	return nil
}

// ---------- chunks ----------

func (s *store) saveChunk(ctx context.Context, chunk Chunk) error {
	if err := s.lock.lock(ctx); err != nil {
		return err
	}
	defer s.lock.unlock()
	s.chunks[chunk.ID] = chunk
	return nil
}

func (s *store) getChunk(ctx context.Context, id uuid.UUID) (Chunk, bool, error) {
	if err := s.lock.rLock(ctx); err != nil {
		return Chunk{}, false, err
	}
	defer s.lock.rUnlock()
	c, ok := s.chunks[id]
	return c, ok, nil
}

func (s *store) deleteChunk(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := s.lock.lock(ctx); err != nil {
		return false, err
	}
	defer s.lock.unlock()
	_, ok := s.chunks[id]
	if !ok {
		return false, nil
	}
	delete(s.chunks, id)
	return true, nil
}

// listChunks resolves all chunks transitively owned by library libID, in
// document-insertion then chunk-insertion order. A document or chunk
// referenced by the library but missing from its table is silently
// skipped, per the documented tolerance for dangling references.
func (s *store) listChunks(ctx context.Context, libID uuid.UUID) ([]Chunk, error) {
	if err := s.lock.rLock(ctx); err != nil {
		return nil, err
	}
	defer s.lock.rUnlock()

	lib, ok := s.libraries[libID]
	if !ok {
		return nil, nil
	}
	out := make([]Chunk, 0, len(lib.DocumentIDs))
	for _, docID := range lib.DocumentIDs {
		doc, ok := s.documents[docID]
		if !ok {
			continue
		}
		for _, chunkID := range doc.ChunkIDs {
			c, ok := s.chunks[chunkID]
			if !ok {
				continue
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// ---------- indices ----------

// installIndex replaces any previously installed index for libID, under
// the writer lock.
func (s *store) installIndex(ctx context.Context, libID uuid.UUID, idx index.Index) error {
	if err := s.lock.lock(ctx); err != nil {
		return err
	}
	defer s.lock.unlock()
	s.indices[libID] = idx
	return nil
}

func (s *store) getIndex(ctx context.Context, libID uuid.UUID) (index.Index, bool, error) {
	if err := s.lock.rLock(ctx); err != nil {
		return nil, false, err
	}
	defer s.lock.rUnlock()
	idx, ok := s.indices[libID]
	return idx, ok, nil
}
