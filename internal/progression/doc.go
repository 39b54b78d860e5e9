// Package progression identifies a sequence of chords written as one text.
//
// Groups are separated by '|', ';' or newlines:
//
//	a := progression.New(id, store, &progression.Config{Workers: 4}, logger)
//	res, err := a.Analyze(ctx, "C E G | A C E | F A C | G B D F")
//	fmt.Println(res.Summary) // C | Am | F | G7
//
// Groups are identified concurrently on a bounded worker pool and reported in
// input order. When a history store is configured the chords are recorded in
// a single transaction under a shared progression ID.
package progression
