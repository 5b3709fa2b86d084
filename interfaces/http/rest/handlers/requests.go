package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"stringanalyzer/domain/core/filters"
	pkgerrors "stringanalyzer/pkg/errors"
	"stringanalyzer/pkg/utils"
)

// maxBodyBytes bounds the POST /strings body
const maxBodyBytes = 1 << 20

// CreateStringRequest represents the request body for creating a string
type CreateStringRequest struct {
	Value string `json:"value" validate:"required"`
}

// decodeCreateStringRequest tells a missing value (400) apart from a value
// that is present but not a JSON string (422)
func decodeCreateStringRequest(r *http.Request) (CreateStringRequest, error) {
	var raw struct {
		Value json.RawMessage `json:"value"`
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return CreateStringRequest{}, pkgerrors.NewValidationError("Invalid request body").WithCause(err)
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return CreateStringRequest{}, pkgerrors.NewValidationError("Invalid request body: must be a JSON object with a \"value\" field").
			WithCode(pkgerrors.CodeMissingValue)
	}

	if len(raw.Value) == 0 || bytes.Equal(raw.Value, []byte("null")) {
		return CreateStringRequest{}, pkgerrors.NewValidationError("value is required").WithCode(pkgerrors.CodeMissingValue)
	}

	var req CreateStringRequest
	if err := json.Unmarshal(raw.Value, &req.Value); err != nil {
		return CreateStringRequest{}, pkgerrors.NewUnprocessableError("value must be a string").WithCode(pkgerrors.CodeInvalidType)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return CreateStringRequest{}, pkgerrors.NewValidationError(err.Error()).WithCode(pkgerrors.CodeMissingValue)
	}
	return req, nil
}

// ListStringsRequest holds the structured filter query parameters
type ListStringsRequest struct {
	IsPalindrome      *string `validate:"omitempty,oneof=true false"`
	MinLength         *int    `validate:"omitempty,min=1"`
	MaxLength         *int    `validate:"omitempty,min=1"`
	WordCount         *int    `validate:"omitempty,min=0"`
	ContainsCharacter *string `validate:"omitempty,single_char"`
}

// parseListStringsRequest reads the query string. Empty parameters count as
// absent.
func parseListStringsRequest(values url.Values) (ListStringsRequest, error) {
	var req ListStringsRequest

	if v := values.Get("is_palindrome"); v != "" {
		req.IsPalindrome = &v
	}
	if v := values.Get("contains_character"); v != "" {
		req.ContainsCharacter = &v
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"min_length", &req.MinLength},
		{"max_length", &req.MaxLength},
		{"word_count", &req.WordCount},
	}
	for _, p := range ints {
		v := values.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, pkgerrors.NewValidationError(fmt.Sprintf("%s must be an integer", p.name)).
				WithDetails(map[string]interface{}{p.name: v})
		}
		*p.dst = &n
	}

	if err := utils.ValidateStruct(req); err != nil {
		return req, pkgerrors.NewValidationError(err.Error())
	}
	return req, nil
}

// Filter converts the request into a structured filter
func (req ListStringsRequest) Filter() filters.Filter {
	f := filters.Filter{
		MinLength:         req.MinLength,
		MaxLength:         req.MaxLength,
		WordCount:         req.WordCount,
		ContainsCharacter: req.ContainsCharacter,
	}
	if req.IsPalindrome != nil {
		f.IsPalindrome = filters.Ptr(*req.IsPalindrome == "true")
	}
	return f
}
