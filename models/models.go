package models

import (
	"encoding/json"
	"time"
)

// RawLink is a single internal link found on the analyzed page, together
// with the text of its surrounding parent element.
type RawLink struct {
	Text    string `json:"text"`
	URL     string `json:"url"`
	Context string `json:"context"`
}

// BasicLink is the reduced link shape used by the basic pipeline.
type BasicLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// SiteRecord aggregates everything the advanced pipeline extracts from a
// single page. One record per request; never persisted, never shared.
type SiteRecord struct {
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Keywords         string               `json:"keywords"`
	RawLinks         []RawLink            `json:"raw_links"`
	ContentText      string               `json:"content_text"`
	CategorizedLinks map[string][]RawLink `json:"categorized_links,omitempty"`
	QualityScore     int                  `json:"quality_score"`
	AIAnalysis       *AIInsights          `json:"ai_analysis,omitempty"`
	AIDescription    string               `json:"ai_description,omitempty"`
	DynamicLinks     []RawLink            `json:"dynamic_links,omitempty"`
}

// BasicRecord is the output of the basic pipeline.
type BasicRecord struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Links       map[string][]BasicLink `json:"links"`
}

// AIInsights holds site-level analysis produced by the AI enrichment
// strategy. All fields are optional; the record carries a nil pointer when
// enrichment is disabled or failed.
type AIInsights struct {
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	Topics       TopicList `json:"topics,omitempty"`
	Audience     string    `json:"audience,omitempty"`
	QualityScore int       `json:"quality_score,omitempty"`
}

// TopicList tolerates models that return topics either as a JSON array or
// as a single comma-style string.
type TopicList []string

func (t *TopicList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*t = nil
		return nil
	}
	*t = TopicList{single}
	return nil
}

// GeneratedDocument is an archived llms.txt document. Archive rows are
// write-only on the analysis path; requests never read them back.
type GeneratedDocument struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Pipeline     string    `json:"pipeline"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	QualityScore int       `json:"quality_score"`
	FilePath     string    `json:"file_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// OllamaRequest represents a request to the Ollama API
type OllamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

// OllamaResponse represents a response from the Ollama API
type OllamaResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}
