// package formatter provides functions to export favorite movies to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

// Supported export formats
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Formats lists the accepted values of the export format flag.
var Formats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ValidFormat reports whether format is one of [Formats].
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Entry is one exported movie, optionally enriched with details.
type Entry struct {
	Movie     models.Movie `json:"movie"`
	Runtime   int          `json:"runtime,omitempty"`
	Tagline   string       `json:"tagline,omitempty"`
	Directors []string     `json:"directors,omitempty"`
	Trailer   string       `json:"trailer,omitempty"`
	Poster    string       `json:"poster,omitempty"` // path relative to the export directory
}

// Collection is a titled list of entries.
type Collection struct {
	Title      string    `json:"title"`
	Owner      string    `json:"owner,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
	Entries    []Entry   `json:"entries"`
}

func year(m models.Movie) string {
	if y, ok := m.ReleaseYear(); ok {
		return strconv.Itoa(y)
	}
	return ""
}

func titleWithYear(m models.Movie) string {
	if y := year(m); y != "" {
		return fmt.Sprintf("%s (%s)", m.Title, y)
	}
	return m.Title
}

// ExportToCSV converts a Collection to CSV format with columns: ID, Title, Year, Rating, Runtime, Directors, Genres, Overview
func ExportToCSV(c *Collection) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Rating", "Runtime", "Directors", "Genres", "Overview"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range c.Entries {
		runtime := ""
		if e.Runtime > 0 {
			runtime = strconv.Itoa(e.Runtime)
		}
		record := []string{
			strconv.Itoa(e.Movie.ID),
			e.Movie.Title,
			year(e.Movie),
			strconv.FormatFloat(e.Movie.VoteAverage, 'f', 1, 64),
			runtime,
			strings.Join(e.Directors, "; "),
			strings.Join(e.Movie.GenreNames(), "; "),
			e.Movie.Overview,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Collection to Markdown, embedding downloaded posters
func ExportToMarkdown(c *Collection) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", c.Title))
	if c.Owner != "" {
		buf.WriteString(fmt.Sprintf("**Owner**: %s\n", c.Owner))
	}
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n", len(c.Entries)))
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n\n", c.ExportedAt.Format(time.DateOnly)))

	for i, e := range c.Entries {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, titleWithYear(e.Movie)))

		if e.Poster != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", e.Movie.Title, e.Poster))
		}
		if e.Tagline != "" {
			buf.WriteString(fmt.Sprintf("_%s_\n\n", e.Tagline))
		}

		buf.WriteString(fmt.Sprintf("- **Rating**: %s\n", shared.FormatRating(e.Movie.VoteAverage)))
		if e.Runtime > 0 {
			buf.WriteString(fmt.Sprintf("- **Runtime**: %s\n", shared.FormatRuntime(e.Runtime)))
		}
		if len(e.Directors) > 0 {
			buf.WriteString(fmt.Sprintf("- **Directed by**: %s\n", strings.Join(e.Directors, ", ")))
		}
		if names := e.Movie.GenreNames(); len(names) > 0 {
			buf.WriteString(fmt.Sprintf("- **Genres**: %s\n", strings.Join(names, ", ")))
		}
		if e.Trailer != "" {
			buf.WriteString(fmt.Sprintf("- **Trailer**: <%s>\n", e.Trailer))
		}
		buf.WriteString(fmt.Sprintf("\n%s\n\n", e.Movie.Overview))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Collection to plain text format
func ExportToText(c *Collection) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", c.Title))
	if c.Owner != "" {
		buf.WriteString(fmt.Sprintf("Owner: %s\n", c.Owner))
	}
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(c.Entries)))

	for i, e := range c.Entries {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, titleWithYear(e.Movie), shared.FormatRating(e.Movie.VoteAverage)))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a Collection to indented JSON
func ExportToJSON(c *Collection) ([]byte, error) {
	return shared.MarshalJSON(c, true)
}

// FileName returns the name of the main export file for format.
func FileName(format string) string {
	switch format {
	case FormatCSV:
		return "favorites.csv"
	case FormatMarkdown:
		return "README.md"
	case FormatText:
		return "favorites.txt"
	default:
		return "favorites.json"
	}
}

// PosterFileName returns the path, relative to the export directory, a movie's poster is saved to.
func PosterFileName(m models.Movie) string {
	ext := path.Ext(m.PosterPath)
	if ext == "" {
		ext = ".jpg"
	}
	return path.Join("posters", fmt.Sprintf("%d%s", m.ID, ext))
}

// WriteExport renders c in format and writes it into dir, returning the file path.
func WriteExport(c *Collection, format, dir string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatCSV:
		data, err = ExportToCSV(c)
	case FormatMarkdown:
		data, err = ExportToMarkdown(c)
	case FormatText:
		data, err = ExportToText(c)
	case FormatJSON, "":
		format = FormatJSON
		data, err = ExportToJSON(c)
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file := filepath.Join(dir, FileName(format))
	if err := os.WriteFile(file, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return file, nil
}

// WritePoster saves image data for m under dir and returns its relative path.
func WritePoster(dir string, m models.Movie, data []byte) (string, error) {
	rel := PosterFileName(m)
	full := filepath.Join(dir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create poster directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save poster: %w", err)
	}
	return rel, nil
}

// Manifest summarizes an export run.
type Manifest struct {
	Format     string    `json:"format"`
	ExportedAt time.Time `json:"exported_at"`
	Total      int       `json:"total"`
	Enriched   int       `json:"enriched"`
	Failed     int       `json:"failed"`
	Posters    int       `json:"posters"`
	Files      []string  `json:"files"`
	Errors     []string  `json:"errors,omitempty"`
}

// WriteManifest writes m as indented JSON to file.
func WriteManifest(m *Manifest, file string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidInput)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download image: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}
