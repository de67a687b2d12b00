package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vecbase/vecbase"
	"github.com/vecbase/vecbase/pkg/index"
)

// Service is the single long-lived orchestrator value: it glues corpus
// mutations, embedding, index (re)build, and query together. Construct one
// with New and pass it by reference to request handlers; there is no
// process-wide singleton.
type Service struct {
	store  *store
	cfg    Config
	logger Logger
}

// New constructs a Service from cfg, filling in any zero-valued fields with
// DefaultConfig's collaborators.
func New(cfg Config) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		store:  newStore(),
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// ---------- libraries ----------

// CreateLibrary allocates a fresh library identifier and persists it.
func (s *Service) CreateLibrary(ctx context.Context, name string) (Library, error) {
	lib := Library{
		ID:        s.cfg.IDGen(),
		Name:      name,
		CreatedAt: s.cfg.Clock(),
	}
	if err := s.store.saveLibrary(ctx, lib); err != nil {
		return Library{}, cancelErr("create_library", err)
	}
	s.logger.Info("library created", "id", lib.ID, "name", lib.Name)
	return lib, nil
}

// GetLibrary returns the library for id, failing NotFound if absent.
func (s *Service) GetLibrary(ctx context.Context, id uuid.UUID) (Library, error) {
	lib, ok, err := s.store.getLibrary(ctx, id)
	if err != nil {
		return Library{}, cancelErr("get_library", err)
	}
	if !ok {
		return Library{}, notFound("get_library", id)
	}
	return lib, nil
}

// UpdateLibrary renames the library, failing NotFound if absent.
func (s *Service) UpdateLibrary(ctx context.Context, id uuid.UUID, name string) (Library, error) {
	lib, err := s.GetLibrary(ctx, id)
	if err != nil {
		return Library{}, err
	}
	lib.Name = name
	if err := s.store.saveLibrary(ctx, lib); err != nil {
		return Library{}, cancelErr("update_library", err)
	}
	return lib, nil
}

// DeleteLibrary cascades the delete to the library's documents, chunks, and
// installed index. Fails NotFound if the library does not exist.
func (s *Service) DeleteLibrary(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.deleteLibrary(ctx, id)
	if err != nil {
		return cancelErr("delete_library", err)
	}
	if !ok {
		err := notFound("delete_library", id)
		s.logger.Error("delete_library failed", errKeyvals(err, "id", id)...)
		return err
	}
	s.logger.Info("library deleted", "id", id)
	return nil
}

// ListLibraries returns a snapshot of every library.
func (s *Service) ListLibraries(ctx context.Context) ([]Library, error) {
	libs, err := s.store.listLibraries(ctx)
	if err != nil {
		return nil, cancelErr("list_libraries", err)
	}
	return libs, nil
}

// ---------- chunks ----------

// AddChunk verifies the library exists, computes the chunk's embedding via
// the configured Embedder, and registers it under a fresh synthetic
// Document — one document per chunk, a preserved quirk of the reference
// design (see DESIGN.md).
func (s *Service) AddChunk(ctx context.Context, libID uuid.UUID, text string) (Chunk, error) {
	lib, err := s.GetLibrary(ctx, libID)
	if err != nil {
		return Chunk{}, err
	}

	vec, err := s.cfg.Embedder.Embed(text)
	if err != nil {
		return Chunk{}, wrapError("add_chunk", vecbase.KindCorruption, err)
	}

	chunk := Chunk{
		ID:        s.cfg.IDGen(),
		Text:      text,
		Embedding: vec,
		CreatedAt: s.cfg.Clock(),
	}
	if err := s.store.saveChunk(ctx, chunk); err != nil {
		return Chunk{}, cancelErr("add_chunk", err)
	}

	doc := Document{
		ID:       s.cfg.IDGen(),
		Title:    "default",
		ChunkIDs: []uuid.UUID{chunk.ID},
	}
	if err := s.store.saveDocument(ctx, doc); err != nil {
		return Chunk{}, cancelErr("add_chunk", err)
	}

	// Re-read and extend the library under one writer hold so concurrent
	// AddChunk calls cannot overwrite each other's document lists.
	if err := s.store.lock.lock(ctx); err != nil {
		return Chunk{}, cancelErr("add_chunk", err)
	}
	lib, ok := s.store.libraries[libID]
	if ok {
		lib.DocumentIDs = append(lib.DocumentIDs, doc.ID)
		s.store.libraries[libID] = lib
	}
	s.store.lock.unlock()
	if !ok {
		return Chunk{}, notFound("add_chunk", libID)
	}

	return chunk, nil
}

// GetChunk returns the chunk for id, failing NotFound if absent.
func (s *Service) GetChunk(ctx context.Context, id uuid.UUID) (Chunk, error) {
	c, ok, err := s.store.getChunk(ctx, id)
	if err != nil {
		return Chunk{}, cancelErr("get_chunk", err)
	}
	if !ok {
		return Chunk{}, notFound("get_chunk", id)
	}
	return c, nil
}

// UpdateChunk replaces the chunk's text and recomputes its embedding.
func (s *Service) UpdateChunk(ctx context.Context, id uuid.UUID, text string) (Chunk, error) {
	c, err := s.GetChunk(ctx, id)
	if err != nil {
		return Chunk{}, err
	}

	vec, err := s.cfg.Embedder.Embed(text)
	if err != nil {
		return Chunk{}, wrapError("update_chunk", vecbase.KindCorruption, err)
	}
	c.Text = text
	c.Embedding = vec

	if err := s.store.saveChunk(ctx, c); err != nil {
		return Chunk{}, cancelErr("update_chunk", err)
	}
	return c, nil
}

// DeleteChunk removes the chunk from the global table, failing NotFound if
// absent. Document lists referencing it become stale; readers tolerate
// that (see ListChunks, and the Index query path).
func (s *Service) DeleteChunk(ctx context.Context, id uuid.UUID) error {
	ok, err := s.store.deleteChunk(ctx, id)
	if err != nil {
		return cancelErr("delete_chunk", err)
	}
	if !ok {
		return notFound("delete_chunk", id)
	}
	return nil
}

// ListChunks returns every chunk transitively owned by libID, in
// document-insertion then chunk-insertion order. Missing chunk or document
// references are silently skipped.
func (s *Service) ListChunks(ctx context.Context, libID uuid.UUID) ([]Chunk, error) {
	if _, err := s.GetLibrary(ctx, libID); err != nil {
		return nil, err
	}
	chunks, err := s.store.listChunks(ctx, libID)
	if err != nil {
		return nil, cancelErr("list_chunks", err)
	}
	return chunks, nil
}

// ---------- indexing ----------

// BuildIndex snapshots libID's chunks under reader discipline, constructs
// the chosen index variant outside any lock, and installs it under the
// writer lock — replacing any previous index for the library atomically.
func (s *Service) BuildIndex(ctx context.Context, libID uuid.UUID, algo Algo) error {
	if _, err := s.GetLibrary(ctx, libID); err != nil {
		return err
	}

	chunks, err := s.store.listChunks(ctx, libID)
	if err != nil {
		return cancelErr("build_index", err)
	}

	vecs := make([][]float64, len(chunks))
	ids := make([]uuid.UUID, len(chunks))
	for i, c := range chunks {
		vecs[i] = c.Embedding
		ids[i] = c.ID
	}

	var idx index.Index
	switch algo {
	case AlgoLinear:
		idx, err = index.NewLinear(vecs, ids)
	case AlgoKD:
		idx, err = index.NewKDTree(vecs, ids)
	case AlgoLSH:
		planes := s.cfg.LSHPlanes
		idx, err = index.NewLSH(vecs, ids, planes, s.cfg.LSHSeed)
	default:
		err := wrapError("build_index", vecbase.KindInvalidAlgo,
			fmt.Errorf("%w: %q", vecbase.ErrInvalidAlgo, algo))
		s.logger.Error("build_index failed", errKeyvals(err, "library", libID, "algo", algo)...)
		return err
	}
	if err != nil {
		err = wrapError("build_index", vecbase.KindDimensionMismatch, err)
		s.logger.Error("build_index failed", errKeyvals(err, "library", libID, "algo", algo)...)
		return err
	}

	if err := s.store.installIndex(ctx, libID, idx); err != nil {
		return cancelErr("build_index", err)
	}
	s.logger.Info("index built", "library", libID, "algo", algo, "chunks", len(chunks))
	return nil
}

// Query resolves libID's installed index and returns up to k Chunks ranked
// by descending cosine similarity to q. Identifiers the index returns that
// no longer exist in the global chunk table are silently dropped.
func (s *Service) Query(ctx context.Context, libID uuid.UUID, q []float64, k int) ([]Chunk, error) {
	if _, err := s.GetLibrary(ctx, libID); err != nil {
		return nil, err
	}

	idx, ok, err := s.store.getIndex(ctx, libID)
	if err != nil {
		return nil, cancelErr("query", err)
	}
	if !ok {
		err := wrapError("query", vecbase.KindNotIndexed, vecbase.ErrNotIndexed)
		s.logger.Warn("query against unindexed library", errKeyvals(err, "library", libID)...)
		return nil, err
	}

	if len(q) != idx.Dim() {
		return nil, wrapError("query", vecbase.KindDimensionMismatch, vecbase.ErrDimensionMismatch)
	}

	ids, err := idx.KNN(q, k)
	if err != nil {
		return nil, wrapError("query", vecbase.KindDimensionMismatch, err)
	}

	s.logger.Debug("query executed", "library", libID, "k", k, "candidates", len(ids))

	out := make([]Chunk, 0, len(ids))
	for _, id := range ids {
		c, ok, err := s.store.getChunk(ctx, id)
		if err != nil {
			return nil, cancelErr("query", err)
		}
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ---------- error helpers ----------

func notFound(op string, id uuid.UUID) error {
	return wrapError(op, vecbase.KindNotFound, fmt.Errorf("%w: %s", vecbase.ErrNotFound, id))
}

// cancelErr reclassifies a context cancellation surfaced by the store as
// KindCancelled; any other store error (there are none today — store
// mutations are not themselves subdivided) passes through unchanged.
func cancelErr(op string, err error) error {
	if err == context.Canceled || err == context.DeadlineExceeded {
		return wrapError(op, vecbase.KindCancelled, err)
	}
	return err
}

// wrapError delegates to the root package's operation+kind wrapper so
// service errors and index/store errors share one taxonomy.
func wrapError(op string, kind vecbase.ErrorKind, err error) error {
	return vecbase.WrapError(op, kind, err)
}
