// Package nsnsearch embeds the NSN search pipeline in a Go program: the same
// identifier normalization, exact and discovery resolution, enrichment and
// filtering the HTTP service runs, without the HTTP hop.
//
//	client, _ := nsnsearch.New(ctx,
//	    nsnsearch.WithPostgres("postgres://nsn@localhost/nsn?sslmode=disable"),
//	    nsnsearch.WithRedisCache("localhost:6379", "", 15*time.Minute),
//	)
//	defer client.Close()
//
//	page, _ := client.Search(ctx, nsnsearch.Query{
//	    Text:   "5330-01-234-5678",
//	    Filter: nsnsearch.Filter{ClassIX: nsnsearch.Bool(true)},
//	})
//	item, _ := client.Lookup(ctx, "012345678")
package nsnsearch
