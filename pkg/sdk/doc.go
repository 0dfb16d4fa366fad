// Package sdk is an HTTP client for the listingsearch API.
//
//	c, _ := sdk.New("http://localhost:8080", sdk.WithToken(os.Getenv("LISTINGSEARCH_TOKEN")))
//	venues, _ := c.Search(ctx, sdk.SearchParams{Category: "venue", GuestCount: 120})
//	hits, _ := c.FuzzySearch(ctx, sdk.FuzzyParams{Name: "Grnd Ballrom"})
//	res, err := c.SemanticSearch(ctx, sdk.SemanticParams{Query: "beach wedding", TopN: 5})
//	if errors.Is(err, sdk.ErrQuotaExceeded) { ... }
package sdk
