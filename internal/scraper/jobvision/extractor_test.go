package jobvision

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobyab-engine/internal/scraper"
)

const fixtureHTML = `
<html><body>
  <job-card>
    <a href="/jobs/100/data-engineer">
      <div class="job-card-title">مهندس داده</div>
    </a>
    <a href="/companies/snapp">اسنپ</a>
    <span class="text-secondary">تهران، ونک</span>
    <span class="text-date">۳ روز پیش</span>
  </job-card>
  <job-card>
    <a href="/jobs/101/analyst">
      <div class="job-card-title">تحلیلگر داده</div>
    </a>
    <span>۵ ساعت پیش</span>
  </job-card>
  <job-card>
    <span class="text-secondary">مشهد</span>
  </job-card>
</body></html>`

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract(t *testing.T) {
	jobs := New().Extract(parse(t, fixtureHTML))
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "مهندس داده", first.Title)
	assert.Equal(t, "اسنپ", first.Company)
	//city is the text before the ، separator
	assert.Equal(t, "تهران", first.City)
	assert.Equal(t, "https://jobvision.ir/jobs/100/data-engineer", first.Link)
	assert.Equal(t, "jobvision", first.Source)
	assert.Equal(t, "۳ روز پیش", first.DatePostedText)

	//no company anchor, no location, date found via the span fallback
	second := jobs[1]
	assert.Equal(t, "تحلیلگر داده", second.Title)
	assert.Equal(t, scraper.Unspecified, second.Company)
	assert.Equal(t, scraper.Unspecified, second.City)
	assert.Equal(t, "۵ ساعت پیش", second.DatePostedText)
}

func TestExtractEmptyPage(t *testing.T) {
	jobs := New().Extract(parse(t, "<html><body></body></html>"))
	assert.Empty(t, jobs)
}

func TestSearchURL(t *testing.T) {
	e := New()
	assert.Equal(t, "https://jobvision.ir/jobs/keyword/dba", e.SearchURL("dba", 1))
	assert.Equal(t, "https://jobvision.ir/jobs/keyword/dba?page=2", e.SearchURL("dba", 2))
	assert.True(t, e.NeedsScroll())
}
