package validation

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Query            string `form:"query" validate:"required,valid_query,min=1,max=100"`
	SortBy           string `form:"sortBy" validate:"valid_sort"`
	ConsultationType string `form:"consultationType" validate:"valid_consultation"`
	PerPage          int    `form:"per_page" validate:"min=0,max=100"`
}

var validateTestCases = []struct {
	name          string
	request       testRequest
	expectedError string
}{
	{name: "Valid", request: testRequest{Query: "rao", SortBy: "fees", ConsultationType: "In Clinic"}},
	{name: "ValidDefaults", request: testRequest{Query: "rao"}},
	{name: "MissingQuery", request: testRequest{}, expectedError: "missing required field 'query'"},
	{name: "BlankQuery", request: testRequest{Query: "   "}, expectedError: "invalid query"},
	{name: "QueryTooLong", request: testRequest{Query: strings.Repeat("a", 101)}, expectedError: "value or length of field 'query' is not in the expected range"},
	{name: "UnknownSort", request: testRequest{Query: "rao", SortBy: "rating"}, expectedError: "invalid sortBy, expected one of: fees, experience"},
	{name: "UnknownConsultationType", request: testRequest{Query: "rao", ConsultationType: "video"}, expectedError: "invalid consultationType, expected one of: Video Consult, In Clinic"},
	{name: "PerPageOutOfRange", request: testRequest{Query: "rao", PerPage: 101}, expectedError: "value or length of field 'per_page' is not in the expected range"},
}

func TestValidate(t *testing.T) {
	validator, err := New(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	require.NoError(t, err, "could not create validator")

	for _, testCase := range validateTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			err := validator.Validate(testCase.request)
			if testCase.expectedError == "" {
				assert.NoError(err)
				return
			}
			assert.EqualError(err, testCase.expectedError)
		})
	}
}
