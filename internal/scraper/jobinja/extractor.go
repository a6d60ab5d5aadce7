package jobinja

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobyab-engine/internal/scraper"
)

const baseURL = "https://jobinja.ir"

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Name() string {
	return "jobinja"
}

func (e *Extractor) SearchURL(keyword string, page int) string {
	u := fmt.Sprintf("%s/jobs?filters%%5Bkeywords%%5D%%5B%%5D=%s", baseURL, url.QueryEscape(keyword))
	if page > 1 {
		u = fmt.Sprintf("%s&page=%d", u, page)
	}
	return u
}

func (e *Extractor) ReadySelector() string {
	return "li.o-listView__item, li.c-jobListView__item"
}

func (e *Extractor) NeedsScroll() bool {
	return false
}

func (e *Extractor) Extract(doc *goquery.Document) []scraper.JobRecord {
	items := doc.Find("li.o-listView__item")
	if items.Length() == 0 {
		// older markup revision
		items = doc.Find("li.c-jobListView__item")
	}

	var jobs []scraper.JobRecord
	items.Each(func(_ int, item *goquery.Selection) {
		titleLink := item.Find("h2.o-listView__itemTitle a").First()
		if titleLink.Length() == 0 {
			titleLink = item.Find("h2.c-jobListView__title a").First()
		}

		title := strings.TrimSpace(titleLink.Text())
		href, _ := titleLink.Attr("href")
		link := scraper.AbsoluteURL(baseURL, href)
		if title == "" || link == "" {
			return
		}

		var company, city, posted string
		item.Find("li.c-jobListView__metaItem").Each(func(_ int, meta *goquery.Selection) {
			text := strings.TrimSpace(meta.Find("span").First().Text())
			switch {
			case meta.Find("i.c-icon--construction").Length() > 0:
				// company cell reads "نام شرکت | توضیح"
				company = strings.TrimSpace(strings.SplitN(text, "|", 2)[0])
			case meta.Find("i.c-icon--place").Length() > 0:
				city = text
			case meta.Find("i.c-icon--calendar").Length() > 0:
				posted = text
			}
		})

		jobs = append(jobs, scraper.Normalize(scraper.JobRecord{
			Title:          title,
			Company:        company,
			City:           city,
			Link:           link,
			Source:         e.Name(),
			DatePostedText: posted,
		}, ""))
	})

	return jobs
}
