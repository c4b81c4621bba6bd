package internshala

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-job-scraper/internal/browser/browsertest"
	"go-job-scraper/internal/models"
	"go-job-scraper/internal/scraper"
)

const listHTML = `<html><body><div id="internship_list_container">
<div class="container-fluid individual_internship" data-href="/internship/detail/data-analytics-1">
  <h3 class="job-internship-name"><a href="/internship/detail/data-analytics-1">Data Analytics</a></h3>
  <p class="company_name">Acme Labs | Actively hiring</p>
  <div id="location_names_1"><a class="location_link">Bangalore</a><a class="location_link">Pune</a></div>
  <a class="view_detail_button" href="/internship/detail/data-analytics-1?ref=list">View details</a>
</div>
<div class="individual_internship" data-href="/internship/detail/2">
  <div class="profile">Business Analyst</div>
  <div class="heading_6">Initech</div>
  <div id="location_names_2">Work From Home</div>
</div>
<div class="individual_internship"><div class="heading_6">No title</div></div>
</div></body></html>`

var query = models.Query{Designation: "Data Analyst", City: "Bangalore"}

func TestSearchURL(t *testing.T) {
	assert.Equal(t, "https://internshala.com/internships/keywords-Data+Analyst+Bangalore", SearchURL(query))
}

func TestExtract(t *testing.T) {
	sess := browsertest.New(map[string]browsertest.Page{
		"https://internshala.com/internships/": {HTML: listHTML},
	})

	records, err := NewScraper().Extract(context.Background(), sess, query)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.Record{
		Source:   models.SourceInternshala,
		Title:    "Data Analytics",
		Company:  "Acme Labs",
		Location: "Bangalore, Pune",
		URL:      "https://internshala.com/internship/detail/data-analytics-1?ref=list",
		Snippet:  records[0].Snippet,
	}, records[0])
	assert.Contains(t, records[0].Snippet, "Actively hiring")

	assert.Equal(t, "Business Analyst", records[1].Title)
	assert.Equal(t, "Initech", records[1].Company)
	assert.Equal(t, "Work From Home", records[1].Location)
	assert.Equal(t, "https://internshala.com/internship/detail/2", records[1].URL)
}

func TestExtract_NoResults(t *testing.T) {
	sess := browsertest.New(map[string]browsertest.Page{
		"https://internshala.com/": {HTML: `<html><body><div id="internship_list_container">
<div id="no_result_found_header">No results</div>
<div class="individual_internship"><div class="profile">Recommended</div></div>
</div></body></html>`},
	})

	records, err := NewScraper().Extract(context.Background(), sess, query)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtract_ContainerMissing(t *testing.T) {
	sess := browsertest.New(map[string]browsertest.Page{
		"https://internshala.com/": {HTML: `<html><body>maintenance</body></html>`},
	})

	records, err := NewScraper().Extract(context.Background(), sess, query)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseInternships_MetaFallback(t *testing.T) {
	doc, err := scraper.ParseHTML(`<html><body>
<div class="internship_meta">
  <div class="heading_4_5"><a href="https://internshala.com/internship/detail/9">Marketing</a></div>
  <a class="link_display_like_text">Hooli</a>
  <a class="location_link">Delhi</a>
</div></body></html>`)
	require.NoError(t, err)

	records := ParseInternships(doc)
	require.Len(t, records, 1)
	assert.Equal(t, "Marketing", records[0].Title)
	assert.Equal(t, "Hooli", records[0].Company)
	assert.Equal(t, "Delhi", records[0].Location)
	assert.Equal(t, "https://internshala.com/internship/detail/9", records[0].URL)
}
