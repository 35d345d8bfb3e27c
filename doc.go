// Package ytscraper collects YouTube channel and video metadata through
// the Data API v3 and exports it to CSV, JSON or XLSX.
//
// # Overview
//
// The pipeline runs in four sequential stages:
//
//   - Resolve: turn any channel URL shape (channel ID, /user/, /c/,
//     @handle, watch link, youtu.be short link) into a channel ID
//   - Fetch: load channel metadata, statistics and upload cadence
//   - Collect: page through the uploads playlist inside a date range
//   - Enrich: batch-fetch per-video details, statistics and a bounded
//     comment sample
//
// # Quick start
//
// Scrape a channel:
//
//	ctx := context.Background()
//	client, err := youtube.NewClient(ctx, apiKey)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := client.Scrape(ctx, "https://www.youtube.com/@creator", "2024-01-01", "2024-12-31")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s: %d videos\n", result.Channel.Title, len(result.Videos))
//
// Export the result:
//
//	path, err := export.Export(result.Channel, result.Videos, export.FormatCSV)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("written to", path)
//
// The web package wraps the same pipeline in an HTTP API with job
// progress polling, paginated results and export downloads; cmd/ytscraper
// is the server entrypoint.
package ytscraper
