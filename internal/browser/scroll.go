package browser

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}

// ScrollToBottom walks the viewport down the page to trigger lazy-loaded
// cards, then jumps to the end.
func ScrollToBottom(page playwright.Page) {
	for i := 0; i < 4; i++ {
		page.Mouse().Wheel(0, 800)
		RandomDelay(300, 700)
	}
	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	RandomDelay(1500, 2500)
}
