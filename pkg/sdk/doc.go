// Package papyrus provides an embeddable Go client for the papyrus paper
// directory: bilingual (English/Farsi) paper search with filters and sorting,
// libraries, and generated literature reviews.
//
// The client wires the same services the HTTP API uses on top of an in-memory,
// SQLite, Redis or Valkey store.
//
//	client, _ := papyrus.New(ctx, papyrus.WithSQLite("papyrus.db"))
//	defer client.Close()
//
//	papers, _ := client.Papers().Search("quantum").
//	    Language(papyrus.Farsi).
//	    Years("2020", "2024").
//	    Newest().
//	    Do(ctx)
//
//	rev, _ := client.Reviews().FromPapers(ctx, []string{"1", "3"}, "", papyrus.English)
//
// Generation uses a deterministic placeholder unless WithGenerator supplies a
// real provider.
package papyrus
