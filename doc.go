// Package vecbase provides the similarity kernel and error taxonomy shared
// by every layer of an in-process vector database: text chunks grouped into
// libraries, a vector embedding per chunk, and kNN similarity queries over a
// chosen library.
//
// vecbase is the root of a small module:
//
//	pkg/embed   - pluggable text-to-vector embedders
//	pkg/index   - interchangeable kNN index structures (linear, kd-tree, LSH)
//	pkg/core    - the corpus store and service orchestrator
//	cmd/vecbase - a cobra CLI that drives pkg/core end to end
//
// # Quick start
//
//	svc := core.New(core.DefaultConfig())
//	lib, _ := svc.CreateLibrary(ctx, "demo")
//	svc.AddChunk(ctx, lib.ID, "hello vector world")
//	svc.BuildIndex(ctx, lib.ID, core.AlgoLinear)
//	results, _ := svc.Query(ctx, lib.ID, queryVec, 5)
//
// The core never touches a disk: persistence, authentication, and the HTTP
// surface are collaborators outside this module's scope.
package vecbase
