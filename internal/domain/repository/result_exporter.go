package repository

import "github.com/yourusername/tg-channel-parser/internal/domain/entity"

// ResultExporter renders results as a downloadable document
type ResultExporter interface {
	// Export returns the document bytes
	Export(results []entity.SearchResult) ([]byte, error)

	// FileExtension e.g. ".xlsx"
	FileExtension() string
}
