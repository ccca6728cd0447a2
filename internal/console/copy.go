package console

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/user/seo-meta-service/internal/domain"
)

// CopyKeys lists the accepted --copy values.
var CopyKeys = []string{"title1", "description1", "title2", "description2"}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// CopyText returns the field of resp named by key.
func CopyText(resp *domain.SeoResponse, key string) (string, error) {
	switch key {
	case "title1":
		return resp.Option1.MetaTitle, nil
	case "description1":
		return resp.Option1.MetaDescription, nil
	case "title2":
		return resp.Option2.MetaTitle, nil
	case "description2":
		return resp.Option2.MetaDescription, nil
	default:
		return "", fmt.Errorf("unknown copy target %q (want one of %v)", key, CopyKeys)
	}
}

// Copy puts the field named by key on the system clipboard and returns it.
func Copy(resp *domain.SeoResponse, key string) (string, error) {
	text, err := CopyText(resp, key)
	if err != nil {
		return "", err
	}
	if err := writeClipboard(text); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}
	return text, nil
}
