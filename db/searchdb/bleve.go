package searchdb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/jiyaaat/Doctor-listings/config"
	"github.com/jiyaaat/Doctor-listings/logger"
)

const IndexingBatchSize = 100

const (
	indexFieldID           = "id"
	indexFieldName         = "name"
	indexFieldSpecialities = "specialities"
	indexFieldClinic       = "clinic"
	indexFieldAddress      = "address"
	indexFieldCity         = "city"
	indexFieldIntroduction = "introduction"
	indexFieldLanguages    = "languages"
)

const minPrefixLength = 3

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	indexPath := cfg.GetIndexPath()
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		logger.Error("failed to create search index directory", "err", err.Error(), "path", indexPath)
		return nil, fmt.Errorf("failed to create search index directory: %w", err)
	}

	index, err := bleve.New(indexPath, createIndexMapping())
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "path", indexPath, "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

// NewInMemory builds an index that lives only as long as the process.
func NewInMemory(logger logger.Logger) (*BleveDB, error) {
	index, err := bleve.NewMemOnly(createIndexMapping())
	if err != nil {
		logger.Error("could not create in-memory index", "err", err.Error())
		return nil, err
	}
	return &BleveDB{logger: logger, index: index}, nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldID, idFieldMapping)

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldName, nameFieldMapping)

	for _, field := range []string{indexFieldSpecialities, indexFieldClinic, indexFieldAddress, indexFieldCity, indexFieldLanguages} {
		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Analyzer = standard.Name
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	// Searchable but not worth storing; the service holds the full record.
	introductionFieldMapping := bleve.NewTextFieldMapping()
	introductionFieldMapping.Analyzer = standard.Name
	introductionFieldMapping.Store = false
	introductionFieldMapping.Index = true
	docMapping.AddFieldMappingsAt(indexFieldIntroduction, introductionFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

func (b *BleveDB) BuildIndex(documents []Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {

		if err := batch.Index(doc.ID, doc); err != nil {
			b.logger.Error("could not index document", "id", doc.ID, "err", err.Error())
			return err
		}

		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				b.logger.Error("could not index batch", "err", err.Error())
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index batch", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) Search(queryString string, limit int, offset int) (*Response, error) {
	start := time.Now()

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(queryString), limit, offset, false)
	searchRequest.Fields = []string{indexFieldName}

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		result := Result{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if name, ok := hit.Fields[indexFieldName].(string); ok {
			result.Name = name
		}
		results[i] = result
	}

	return &Response{
		Results:    results,
		Total:      searchResult.Total,
		MaxScore:   searchResult.MaxScore,
		SearchTime: time.Since(start).String(),
	}, nil
}

// buildSearchQuery requires every quoted phrase to match somewhere and ranks
// the remaining words across all fields.
func buildSearchQuery(queryString string) query.Query {

	const (
		boostForName         = 3.0
		boostForSpeciality   = 2.5
		boostForClinic       = 1.5
		boostForLocation     = 1.5
		boostForIntroduction = 1.0
		boostForLanguage     = 1.0
		boostForPhraseMatch  = 5.0
		boostForPartialMatch = 1.5
	)

	quoted, remaining := parseQuotedQuery(strings.ToLower(queryString))
	if len(quoted) == 0 && remaining == "" {
		return bleve.NewMatchAllQuery()
	}

	fieldBoosts := map[string]float64{
		indexFieldName:         boostForName,
		indexFieldSpecialities: boostForSpeciality,
		indexFieldClinic:       boostForClinic,
		indexFieldAddress:      boostForLocation,
		indexFieldCity:         boostForLocation,
		indexFieldIntroduction: boostForIntroduction,
		indexFieldLanguages:    boostForLanguage,
	}

	conjunctQuery := bleve.NewConjunctionQuery()

	for _, phrase := range quoted {
		phraseQuery := bleve.NewDisjunctionQuery()
		for field := range fieldBoosts {
			fieldPhraseQuery := bleve.NewMatchPhraseQuery(phrase)
			fieldPhraseQuery.SetField(field)
			fieldPhraseQuery.SetBoost(boostForPhraseMatch)
			phraseQuery.AddQuery(fieldPhraseQuery)
		}
		conjunctQuery.AddQuery(phraseQuery)
	}

	if remaining != "" {
		disjunctQuery := bleve.NewDisjunctionQuery()
		for field, boost := range fieldBoosts {
			matchQuery := bleve.NewMatchQuery(remaining)
			matchQuery.SetField(field)
			matchQuery.SetBoost(boost)
			disjunctQuery.AddQuery(matchQuery)
		}

		for _, word := range strings.Fields(remaining) {
			if len(word) < minPrefixLength {
				continue
			}
			prefixQuery := bleve.NewPrefixQuery(word)
			prefixQuery.SetField(indexFieldName)
			prefixQuery.SetBoost(boostForPartialMatch)
			disjunctQuery.AddQuery(prefixQuery)
		}
		conjunctQuery.AddQuery(disjunctQuery)
	}

	return conjunctQuery
}

// parseQuotedQuery splits `"in clinic" dentist` into the phrase "in clinic"
// and the remaining words "dentist". An unterminated quote is read as plain text.
func parseQuotedQuery(queryString string) ([]string, string) {
	var quoted []string
	var remaining strings.Builder

	rest := queryString
	for {
		openIdx := strings.Index(rest, `"`)
		if openIdx == -1 {
			remaining.WriteString(rest)
			break
		}
		closeIdx := strings.Index(rest[openIdx+1:], `"`)
		if closeIdx == -1 {
			remaining.WriteString(rest[:openIdx])
			remaining.WriteString(" ")
			remaining.WriteString(rest[openIdx+1:])
			break
		}

		remaining.WriteString(rest[:openIdx])
		remaining.WriteString(" ")

		phrase := strings.Join(strings.Fields(rest[openIdx+1:openIdx+1+closeIdx]), " ")
		if phrase != "" {
			quoted = append(quoted, phrase)
		}
		rest = rest[openIdx+1+closeIdx+1:]
	}

	return quoted, strings.Join(strings.Fields(remaining.String()), " ")
}

func (b *BleveDB) DeleteDocuments(documentIDs []string) error {
	batch := b.index.NewBatch()

	for i, docID := range documentIDs {
		batch.Delete(docID)

		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				b.logger.Error("could not delete documents", "err", err.Error())
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not delete documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "path", b.indexPath, "err", err.Error())
			return err
		}
	}
	return nil
}
