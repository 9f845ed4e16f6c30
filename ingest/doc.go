// Package ingest runs the artifact ingestion pipeline.
//
// The Coordinator accepts file paths, fingerprints and parses each file on a
// worker pool, embeds the parsed entries in batches, and appends the
// resulting records to storage. Per-file state is observable through
// Progress while files move queued -> parsing -> embedding -> done/error.
//
//	coord, err := ingest.NewCoordinator(recordRepo, artifactRepo, provider)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer coord.Release()
//
//	coord.Submit("/cases/triage/Security.jsonl")
//	for path, p := range coord.Progress() {
//		fmt.Println(path, p.Status, p.ItemCount)
//	}
package ingest
