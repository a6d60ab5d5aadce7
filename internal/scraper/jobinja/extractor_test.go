package jobinja

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobyab-engine/internal/scraper"
)

const fixtureHTML = `
<html><body><ul>
  <li class="o-listView__item">
    <h2 class="o-listView__itemTitle"><a href="/jobs/1/dba">کارشناس پایگاه داده</a></h2>
    <ul>
      <li class="c-jobListView__metaItem"><i class="c-icon--construction"></i><span>داده پردازان | فناوری اطلاعات</span></li>
      <li class="c-jobListView__metaItem"><i class="c-icon--place"></i><span>تهران</span></li>
      <li class="c-jobListView__metaItem"><i class="c-icon--calendar"></i><span>۲ روز پیش</span></li>
    </ul>
  </li>
  <li class="o-listView__item">
    <h2 class="o-listView__itemTitle"><a href="https://jobinja.ir/jobs/2/dba-senior">DBA ارشد</a></h2>
  </li>
  <li class="o-listView__item">
    <h2 class="o-listView__itemTitle"><a href="/jobs/3/empty"></a></h2>
  </li>
</ul></body></html>`

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
	assert.Equal(t, "کارشناس پایگاه داده", first.Title)
	assert.Equal(t, "داده پردازان", first.Company)
	assert.Equal(t, "تهران", first.City)
	assert.Equal(t, "https://jobinja.ir/jobs/1/dba", first.Link)
	assert.Equal(t, "jobinja", first.Source)
	assert.Equal(t, "۲ روز پیش", first.DatePostedText)

	//missing meta items get the sentinel, absolute links pass through
	second := jobs[1]
	assert.Equal(t, "DBA ارشد", second.Title)
	assert.Equal(t, scraper.Unspecified, second.Company)
	assert.Equal(t, scraper.Unspecified, second.City)
	assert.Equal(t, scraper.Unspecified, second.DatePostedText)
	assert.Equal(t, "https://jobinja.ir/jobs/2/dba-senior", second.Link)
}

func TestExtractFallbackMarkup(t *testing.T) {
	html := `
<li class="c-jobListView__item">
  <h2 class="c-jobListView__title"><a href="/jobs/9/x">مهندس داده</a></h2>
</li>`
	jobs := New().Extract(parse(t, html))
	require.Len(t, jobs, 1)
	assert.Equal(t, "مهندس داده", jobs[0].Title)
}

func TestExtractEmptyPage(t *testing.T) {
	jobs := New().Extract(parse(t, "<html><body><p>no results</p></body></html>"))
	assert.Empty(t, jobs)
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t,
		"https://jobinja.ir/jobs?filters%5Bkeywords%5D%5B%5D=dba",
		New().SearchURL("dba", 1))
	assert.Equal(t,
		"https://jobinja.ir/jobs?filters%5Bkeywords%5D%5B%5D=dba&page=3",
		New().SearchURL("dba", 3))
}
