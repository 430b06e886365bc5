package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/raushankrgupta/storefront-listings/listings"
	"github.com/raushankrgupta/storefront-listings/sources"
)

// render_listings fills a host page's grid from a listing source and prints
// the result, or with -json prints the derived products of a collection.
func main() {
	var (
		sourceURI  string
		pagePath   string
		collection string
		publicDir  string
		dpr        float64
		asJSON     bool
	)
	flag.StringVar(&sourceURI, "source", "web/data/listings.html", "listing source (path, http(s)://, s3://, mongodb://)")
	flag.StringVar(&pagePath, "page", "web/pages/index.html", "host page to render")
	flag.StringVar(&collection, "collection", "", "override the page's collection")
	flag.StringVar(&publicDir, "public", "web", "directory thumbnails are probed in")
	flag.Float64Var(&dpr, "dpr", 1, "device pixel ratio used for low-res marking")
	flag.BoolVar(&asJSON, "json", false, "print products as JSON instead of the page")
	flag.Parse()

	src, err := sources.GetSource(sourceURI)
	if err != nil {
		log.Fatalf("Failed to get source for %s: %v", sourceURI, err)
	}

	pipeline := listings.NewPipeline(src, sourceURI)
	pipeline.Prober = listings.NewImageProber(publicDir, "")
	ctx := context.Background()

	if asJSON {
		products, err := pipeline.Products(ctx, collection)
		if err != nil {
			log.Fatalf("Failed to load listings: %v", err)
		}
		b, _ := json.MarshalIndent(products, "", "  ")
		fmt.Println(string(b))
		return
	}

	page, err := os.ReadFile(pagePath)
	if err != nil {
		log.Fatalf("Failed to read page %s: %v", pagePath, err)
	}
	out, err := pipeline.RenderPage(ctx, page, listings.RenderOptions{Collection: collection, DPR: dpr})
	if err != nil {
		log.Fatalf("Failed to render page: %v", err)
	}
	os.Stdout.Write(out)
}
