package listings

import (
	"regexp"
	"strings"
)

const (
	// ProductImageRoot is where per-product image folders live
	ProductImageRoot = "images/products/"
	// DefaultImageName is guessed when a listing names no images
	DefaultImageName = "1.png"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a product name into a URL-safe identifier:
// lowercase, non-alphanumeric runs collapsed to one hyphen, no hyphen at either end.
func Slugify(s string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// ImageBase is the default folder for a product's images, with trailing slash
func ImageBase(name string) string {
	return ProductImageRoot + Slugify(name) + "/"
}

// ResolveImages turns the comma separated images cell into image paths.
// Entries containing a "/" are used as given, bare file names are placed under
// the product's default folder. The result is never empty.
func ResolveImages(name, cell string) []string {
	base := ImageBase(name)

	var images []string
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			images = append(images, part)
		} else {
			images = append(images, base+part)
		}
	}

	if len(images) == 0 {
		return []string{base + DefaultImageName}
	}
	return images
}
