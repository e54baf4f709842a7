package recipe

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/Mesayaaa/Meal-Plan/internal/llm"

	"github.com/PuerkitoBio/goquery"
)

//go:embed extractor_prompt.md
var extractorPrompt string

var extractorTemplate = template.Must(template.New("extractor").Parse(extractorPrompt))

// maxPageText caps the page text sent to the model.
const maxPageText = 20000

// Clipper imports recipes from web pages.
type Clipper struct {
	textGen    llm.TextGenerator
	recorder   llm.MetaRecorder
	httpClient *http.Client
}

// NewClipper creates a new Clipper instance. recorder may be nil.
func NewClipper(textGen llm.TextGenerator, recorder llm.MetaRecorder) *Clipper {
	return &Clipper{
		textGen:    textGen,
		recorder:   recorder,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type page struct {
	URL   string
	Text  string
	Image string
}

// Clip fetches url and extracts a recipe from it using the LLM.
func (c *Clipper) Clip(ctx context.Context, url string) (Recipe, error) {
	start := time.Now()

	p, err := c.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	var buf bytes.Buffer
	if err := extractorTemplate.Execute(&buf, p); err != nil {
		return Recipe{}, fmt.Errorf("failed to build extractor prompt: %w", err)
	}

	resp, err := c.textGen.GenerateContent(ctx, buf.String())
	if err != nil {
		return Recipe{}, fmt.Errorf("ai extraction failed: %w", err)
	}
	if c.recorder != nil {
		// usage is best effort
		_ = c.recorder.RecordMeta(ctx, llm.AgentMeta{AgentName: "Clipper", Usage: resp.Usage, Latency: time.Since(start)})
	}

	var r Recipe
	if err := json.Unmarshal([]byte(llm.CleanJSON(resp.Content)), &r); err != nil {
		return Recipe{}, fmt.Errorf("failed to parse AI response: %w", err)
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return Recipe{}, fmt.Errorf("no recipe found at %s", url)
	}
	if r.Image == "" {
		r.Image = p.Image
	}
	return r, nil
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, url string) (page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return page{}, err
	}
	req.Header.Set("User-Agent", "meal-plan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return page{}, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return page{}, err
	}

	image, _ := doc.Find(`meta[property="og:image"]`).Attr("content")

	// Remove noise to save LLM tokens
	doc.Find("script, style, noscript, nav, header, footer, iframe, form, aside, .ads, #ads, .comments").Remove()

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > maxPageText {
		text = text[:maxPageText]
	}
	return page{URL: url, Text: text, Image: image}, nil
}
