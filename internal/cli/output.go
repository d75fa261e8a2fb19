// Package cli provides output formatting for the productos CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ludmilasolutions/productos/internal/models"
	"github.com/ludmilasolutions/productos/internal/share"
	"github.com/ludmilasolutions/productos/pkg/utils"
)

// OutputFormat is the format for search result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one result per line.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		writeCompact(w, response)
		return nil
	default:
		writeText(w, response)
		return nil
	}
}

func writeText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms (sort: %s)\n\n",
		response.Total, response.QueryTime, response.Sort)
	for i, result := range response.Results {
		item := result.Item
		fmt.Fprintf(w, "─────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, item.Code, utils.Truncate(item.Description, 70))
		if item.Brand != "" {
			fmt.Fprintf(w, "   Brand: %s\n", item.Brand)
		}
		if item.Category != "" {
			fmt.Fprintf(w, "   Category: %s\n", item.Category)
		}
		fmt.Fprintf(w, "   Price: %s | Score: %.4f\n", share.FormatPrice(item.Price), result.Score)
	}
}

func writeCompact(w io.Writer, response *models.SearchResponse) {
	for _, result := range response.Results {
		item := result.Item
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\n",
			item.Code, utils.Truncate(item.Description, 50), share.FormatPrice(item.Price), result.Score)
	}
}
