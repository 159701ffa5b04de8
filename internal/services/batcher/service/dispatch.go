package service

import (
	dom "embedbatch/internal/services/batcher/domain"
)

// resolve decides the single Result each reply path of b will receive
// a failure goes to every reply unchanged; a short result aborts the trailing replies
func resolve(b *dom.Batch, embeddings [][]float32, err error) ([]dom.Result, dom.Outcome) {
	results := make([]dom.Result, len(b.Replies))
	if err != nil {
		for i := range results {
			results[i] = dom.Result{Err: err}
		}
		return results, dom.Outcome{Failed: len(results), Err: err}
	}

	var out dom.Outcome
	for i := range results {
		if i < len(embeddings) {
			results[i] = dom.Result{Embedding: dom.EmbedResult{Embedding: embeddings[i]}}
			out.Delivered++
			continue
		}
		results[i] = dom.Result{Err: dom.ErrWorkerAborted}
		out.Aborted++
	}
	if n := len(embeddings) - len(results); n > 0 {
		out.Extra = n
	}
	return results, out
}

// deliver sends results[i] on b.Replies[i]
// sends never block because each reply path has capacity 1 and is used once
func deliver(b *dom.Batch, results []dom.Result) {
	for i, reply := range b.Replies {
		reply <- results[i]
	}
}
