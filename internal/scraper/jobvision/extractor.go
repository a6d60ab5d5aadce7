package jobvision

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobyab-engine/internal/scraper"
)

const baseURL = "https://jobvision.ir"

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Name() string {
	return "jobvision"
}

func (e *Extractor) SearchURL(keyword string, page int) string {
	u := fmt.Sprintf("%s/jobs/keyword/%s", baseURL, url.PathEscape(keyword))
	if page > 1 {
		u = fmt.Sprintf("%s?page=%d", u, page)
	}
	return u
}

func (e *Extractor) ReadySelector() string {
	return "job-card"
}

// Jobvision renders cards lazily; the fetcher has to scroll to the bottom
// before the full page is in the DOM.
func (e *Extractor) NeedsScroll() bool {
	return true
}

func (e *Extractor) Extract(doc *goquery.Document) []scraper.JobRecord {
	var jobs []scraper.JobRecord
	doc.Find("job-card").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("div.job-card-title").First().Text())

		href, _ := card.Find("a[href]").First().Attr("href")
		link := scraper.AbsoluteURL(baseURL, href)
		if title == "" || link == "" {
			return
		}

		var company string
		card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if h, ok := a.Attr("href"); ok && strings.Contains(h, "/companies/") {
				company = strings.TrimSpace(a.Text())
				return false
			}
			return true
		})

		// location cell reads "شهر، محله"
		city := strings.TrimSpace(card.Find("span.text-secondary").First().Text())
		city = strings.TrimSpace(strings.SplitN(city, "،", 2)[0])

		posted := strings.TrimSpace(card.Find("span.text-date").First().Text())
		if posted == "" {
			card.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				text := strings.TrimSpace(s.Text())
				if strings.HasSuffix(text, "پیش") {
					posted = text
					return false
				}
				return true
			})
		}

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
