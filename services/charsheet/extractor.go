package charsheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// extractScript runs inside the page and serializes every skill row
// into one delimited blob. The format is a contract shared with
// ParseSkills: rows joined by ";", fields by ",".
const extractScript = `
(() => {
	const items = document.querySelectorAll("div.ct-skills .ct-skills__item");
	return [...items].map((item) => {
		const skill = item.querySelector(".ct-skills__col--skill");
		const modifier = item.querySelector(".ct-skills__col--modifier");
		return skill.innerText + "," + modifier.innerText.replace("\n", "");
	}).join(";");
})()
`

// skillsSelector is the container the sheet renders skills into.
const skillsSelector = "div.ct-skills"

// Extractor drives a remote browser to scrape character sheets.
//
// AllocatorURL is the devtools endpoint of the browser service, it is
// process-wide read-only configuration. Every Extract call opens its
// own tab and closes it before returning; tabs are never shared
// between requests.
type Extractor struct {
	AllocatorURL string
	// Timeout bounds the wait for the skill list to render.
	Timeout time.Duration
}

// Extract navigates a fresh tab to the sheet URL, waits for the skills
// panel to render and returns the extracted skill map.
func (e Extractor) Extract(ctx context.Context, url string) (CharacterSheet, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, e.AllocatorURL)
	defer cancelAlloc()
	pageCtx, cancelPage := chromedp.NewContext(allocCtx)
	// closes the tab
	defer cancelPage()

	// The connection is only established on the first Run, do it
	// without actions so connect failures are distinguishable from
	// render timeouts.
	if err := chromedp.Run(pageCtx); err != nil {
		return nil, recordFailure(span, fmt.Errorf("%w: %v", ErrBrowserConnect, err))
	}

	waitCtx, cancelWait := context.WithTimeout(pageCtx, e.Timeout)
	defer cancelWait()

	var blob string
	err := chromedp.Run(waitCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(skillsSelector, chromedp.ByQuery),
		chromedp.Evaluate(extractScript, &blob),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, recordFailure(span, fmt.Errorf("%w (%s)", ErrRenderTimeout, e.Timeout))
	}
	if err != nil {
		return nil, recordFailure(span, fmt.Errorf("extract %q: %w", url, err))
	}
	if blob == "" {
		return nil, recordFailure(span, ErrNoScriptValue)
	}

	sheet, err := ParseSkills(blob)
	if err != nil {
		return nil, recordFailure(span, err)
	}

	slog.DebugContext(ctx, "extracted character sheet", "url", url, "skills", len(sheet))
	return sheet, nil
}

func recordFailure(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
