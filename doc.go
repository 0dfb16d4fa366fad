// Package listingsearch ranks marketplace listings (venues, caterers, decorators,
// photographers) for a wedding-planning catalog.
//
// The caller owns the listings; every call takes the corpus to rank and returns
// listings in ranked order without modifying them.
//
//	client, _ := listingsearch.New(
//	    listingsearch.WithEmbedder(myEmbedder),
//	    listingsearch.WithLogger(slog.Default()),
//	)
//
//	// Filter by hard constraints, then rank by boosts and TF-IDF relevance.
//	venues := client.Hybrid(ctx, corpus, listingsearch.HybridQuery{
//	    Category:   "venue",
//	    GuestCount: 120,
//	    QueryText:  "garden lawn",
//	})
//
//	// Typo-tolerant name/description lookup.
//	hits := client.Fuzzy(ctx, corpus, listingsearch.FuzzyQuery{Name: "Grnd Ballrom"})
//
//	// Embedding similarity; scores are cosine similarities.
//	scored, err := client.Semantic(ctx, corpus, listingsearch.SemanticQuery{Query: "beach wedding"})
package listingsearch
