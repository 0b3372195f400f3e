package searchdb

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

var parseQuotedQueryTestCases = []struct {
	name              string
	input             string
	expectedQuoted    []string
	expectedRemaining string
}{
	{
		name:              "Simple quoted phrase",
		input:             `"general physician"`,
		expectedQuoted:    []string{"general physician"},
		expectedRemaining: "",
	},
	{
		name:              "Quoted phrase with remaining terms",
		input:             `"general physician" bangalore hindi`,
		expectedQuoted:    []string{"general physician"},
		expectedRemaining: "bangalore hindi",
	},
	{
		name:              "Multiple quoted phrases",
		input:             `"salt lake" dentist "teeth alignment"`,
		expectedQuoted:    []string{"salt lake", "teeth alignment"},
		expectedRemaining: "dentist",
	},
	{
		name:              "No quotes",
		input:             `dentist in bangalore`,
		expectedQuoted:    nil,
		expectedRemaining: "dentist in bangalore",
	},
	{
		name:              "Empty quoted phrase",
		input:             `"" dentist`,
		expectedQuoted:    nil,
		expectedRemaining: "dentist",
	},
	{
		name:              "Quoted phrase with extra spaces",
		input:             `"  banjara   hills  " diabetes`,
		expectedQuoted:    []string{"banjara hills"},
		expectedRemaining: "diabetes",
	},
	{
		name:              "Unterminated quote",
		input:             `skin "acne treatment`,
		expectedQuoted:    nil,
		expectedRemaining: "skin acne treatment",
	},
}

func TestParseQuotedQuery(t *testing.T) {
	for _, testCase := range parseQuotedQueryTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			quoted, remaining := parseQuotedQuery(testCase.input)

			assert.Equal(testCase.expectedQuoted, quoted, "quoted phrases should match")
			assert.Equal(testCase.expectedRemaining, remaining, "remaining (not quoted) terms should match")
		})
	}
}

var testDocuments = []Document{
	{
		ID:           "1001",
		Name:         "Dr. Anita Sharma",
		Specialities: []string{"General Physician"},
		Clinic:       "Sharma Family Clinic",
		Address:      "12, 5th Block, Koramangala, Bangalore",
		City:         "Bangalore",
		Introduction: "Preventive care and family medicine.",
		Languages:    []string{"English", "Hindi"},
	},
	{
		ID:           "1002",
		Name:         "Dr. Rahul Mehta",
		Specialities: []string{"Dentist"},
		Clinic:       "Smile Dental Care",
		Address:      "100 Feet Road, Indiranagar, Bangalore",
		City:         "Bangalore",
		Introduction: "Root canal treatment and cosmetic dentistry.",
		Languages:    []string{"English", "Kannada"},
	},
	{
		ID:           "1003",
		Name:         "Dr. Priya Nair",
		Specialities: []string{"Dermatologist", "Cosmetologist"},
		Clinic:       "SkinFirst Clinic",
		Address:      "Lokhandwala Complex, Andheri West, Mumbai",
		City:         "Mumbai",
		Introduction: "Skin, hair and nail care with a focus on acne treatment.",
		Languages:    []string{"English", "Malayalam"},
	},
}

func newTestIndex(assert *require.Assertions) *BleveDB {
	index, err := NewInMemory(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	assert.NoError(err, "could not create in-memory index")
	assert.NoError(index.BuildIndex(testDocuments), "could not index test documents")
	return index
}

func resultIDs(response *Response) []string {
	ids := make([]string, 0, len(response.Results))
	for _, result := range response.Results {
		ids = append(ids, result.ID)
	}
	return ids
}

var searchTestCases = []struct {
	name        string
	query       string
	expectedIDs []string
	firstID     string
}{
	{name: "ByName", query: "sharma", expectedIDs: []string{"1001"}, firstID: "1001"},
	{name: "ByNamePrefix", query: "meh", expectedIDs: []string{"1002"}},
	{name: "BySpeciality", query: "dentist", expectedIDs: []string{"1002"}},
	{name: "ByCity", query: "mumbai", expectedIDs: []string{"1003"}},
	{name: "ByLanguage", query: "kannada", expectedIDs: []string{"1002"}},
	{name: "ByIntroduction", query: "acne", expectedIDs: []string{"1003"}},
	{name: "CaseInsensitive", query: "BANGALORE", expectedIDs: []string{"1001", "1002"}},
	{name: "QuotedPhrase", query: `"family clinic"`, expectedIDs: []string{"1001"}},
	{name: "QuotedPhraseNarrowsTerms", query: `"root canal" bangalore`, expectedIDs: []string{"1002"}},
	{name: "NoResults", query: "cardiologist", expectedIDs: []string{}},
}

func TestBleveDBSearch(t *testing.T) {
	index := newTestIndex(require.New(t))
	defer index.Close()

	for _, testCase := range searchTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			response, err := index.Search(testCase.query, 10, 0)
			assert.NoError(err)
			assert.ElementsMatch(testCase.expectedIDs, resultIDs(response))
			assert.Equal(uint64(len(testCase.expectedIDs)), response.Total)
			if testCase.firstID != "" {
				assert.Equal(testCase.firstID, response.Results[0].ID)
			}
		})
	}
}

func TestBleveDBSearchPaging(t *testing.T) {
	assert := require.New(t)
	index := newTestIndex(assert)
	defer index.Close()

	firstPage, err := index.Search("bangalore", 1, 0)
	assert.NoError(err)
	assert.Len(firstPage.Results, 1)
	assert.Equal(uint64(2), firstPage.Total)

	secondPage, err := index.Search("bangalore", 1, 1)
	assert.NoError(err)
	assert.Len(secondPage.Results, 1)
	assert.NotEqual(firstPage.Results[0].ID, secondPage.Results[0].ID)
}

func TestBleveDBDeleteDocuments(t *testing.T) {
	assert := require.New(t)
	index := newTestIndex(assert)
	defer index.Close()

	count, err := index.GetDocCount()
	assert.NoError(err)
	assert.Equal(uint64(len(testDocuments)), count)

	assert.NoError(index.DeleteDocuments([]string{"1002"}))

	count, err = index.GetDocCount()
	assert.NoError(err)
	assert.Equal(uint64(len(testDocuments)-1), count)

	response, err := index.Search("dentist", 10, 0)
	assert.NoError(err)
	assert.Empty(response.Results)
}
