package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/seo-meta-service/internal/domain"
)

var optionKeys = [...]string{"option_1", "option_2"}

// Parse turns the provider's reply into a SeoResponse. Code fences are
// stripped, every required field is checked and lengths are recounted; the
// provider's own counts are ignored.
func Parse(raw string) (*domain.SeoResponse, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: reply is empty", domain.ErrMalformedResponse)
	}

	var doc map[string]json.RawMessage
	if err := decodeStrict(cleaned, &doc); err != nil {
		return nil, fmt.Errorf("%w: reply is not a JSON object: %v", domain.ErrMalformedResponse, err)
	}

	var opts [len(optionKeys)]domain.MetaOption
	for i, key := range optionKeys {
		rawOpt, ok := doc[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", domain.ErrMalformedResponse, key)
		}
		opt, err := parseOption(key, rawOpt)
		if err != nil {
			return nil, err
		}
		opts[i] = opt
	}

	return &domain.SeoResponse{Option1: opts[0], Option2: opts[1]}, nil
}

// StripFences removes ```json and ``` markers wherever they occur.
func StripFences(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func parseOption(key string, raw json.RawMessage) (domain.MetaOption, error) {
	var fields map[string]json.RawMessage
	if err := decodeStrict(string(raw), &fields); err != nil || fields == nil {
		return domain.MetaOption{}, fmt.Errorf("%w: %s is not an object", domain.ErrMalformedResponse, key)
	}

	var opt domain.MetaOption
	targets := []struct {
		name string
		dst  *string
	}{
		{"type", &opt.Type},
		{"meta_title", &opt.MetaTitle},
		{"meta_description", &opt.MetaDescription},
	}
	for _, t := range targets {
		v, err := requiredString(fields, t.name)
		if err != nil {
			return domain.MetaOption{}, fmt.Errorf("%w: %s.%s %v", domain.ErrMalformedResponse, key, t.name, err)
		}
		*t.dst = v
	}

	opt.MetaTitleLength = domain.CharCount(opt.MetaTitle)
	opt.MetaDescriptionLength = domain.CharCount(opt.MetaDescription)
	return opt, nil
}

func requiredString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("is missing")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("is not a string")
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("is empty")
	}
	return s, nil
}

// decodeStrict decodes exactly one JSON value and rejects trailing data.
func decodeStrict(s string, v any) error {
	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	if rest, _ := readRest(dec); len(bytes.TrimSpace(rest)) > 0 {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

func readRest(dec *json.Decoder) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(dec.Buffered())
	return buf.Bytes(), err
}
