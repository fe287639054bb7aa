// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Dragon-GCS/GetPeper/internal/httputil"
)

// ErrNoPDF marks a mirror page that carries no PDF link for the DOI.
var ErrNoPDF = errors.New("mirror page has no pdf link")

// Resolve asks the mirror for doi's article page and extracts the embedded
// PDF URL. Mirrors serve the PDF in an embed or iframe with id "pdf";
// scheme-relative and host-relative sources are normalized against the
// mirror URL.
func Resolve(ctx context.Context, client *http.Client, mirrorURL, doi string) (string, error) {
	pageURL := strings.TrimSuffix(mirrorURL, "/") + "/" + doi
	html, err := httputil.Get(ctx, client, pageURL, "")
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", doi, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing mirror page for %s: %w", doi, err)
	}

	src, ok := doc.Find("embed#pdf, iframe#pdf, #pdf").First().Attr("src")
	if !ok || src == "" {
		return "", fmt.Errorf("%s: %w", doi, ErrNoPDF)
	}

	// Drop the viewer fragment, if any.
	if i := strings.IndexByte(src, '#'); i >= 0 {
		src = src[:i]
	}

	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src, nil
	case strings.HasPrefix(src, "/"):
		base, err := url.Parse(mirrorURL)
		if err != nil {
			return "", fmt.Errorf("parsing mirror url: %w", err)
		}
		return base.Scheme + "://" + base.Host + src, nil
	default:
		return src, nil
	}
}
