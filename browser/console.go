package browser

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"page-health-checker/config"
)

const (
	LevelSevere      = "SEVERE"
	LevelDriverError = "DRIVER_ERROR"
)

// ConsoleIssue is one severe browser console entry, or a single degraded
// entry when the driver itself fails.
type ConsoleIssue struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Source    string `json:"source,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// ConsoleAuditor loads a page in a headless browser and collects severe
// console entries: uncaught exceptions and console.error calls.
type ConsoleAuditor struct {
	config config.BrowserConfig
}

func NewConsoleAuditor(cfg config.BrowserConfig) *ConsoleAuditor {
	return &ConsoleAuditor{config: cfg}
}

// Audit navigates to pageURL with its own network round-trip, waits the
// settle delay for deferred scripts, and returns the severe entries seen.
// A launch or navigation failure degrades to a single DRIVER_ERROR entry
// instead of propagating. The browser is released on every path.
func (a *ConsoleAuditor) Audit(ctx context.Context, pageURL string) []ConsoleIssue {
	log.Printf("Initializing browser for %s...", pageURL)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(a.config.UserAgent),
	)
	if !a.config.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, a.config.Timeout)
	defer cancelTimeout()

	var mu sync.Mutex
	var issues []ConsoleIssue

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			issue := exceptionIssue(e)
			mu.Lock()
			issues = append(issues, issue)
			mu.Unlock()
		case *runtime.EventConsoleAPICalled:
			if e.Type != runtime.APITypeError {
				return
			}
			issue := consoleCallIssue(e)
			mu.Lock()
			issues = append(issues, issue)
			mu.Unlock()
		}
	})

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(a.config.SettleDelay),
	)
	if err != nil {
		log.Printf("Browser error checking console for %s: %v", pageURL, err)
		return []ConsoleIssue{{Level: LevelDriverError, Message: err.Error()}}
	}

	mu.Lock()
	defer mu.Unlock()
	return issues
}

func exceptionIssue(ev *runtime.EventExceptionThrown) ConsoleIssue {
	details := ev.ExceptionDetails

	message := details.Text
	if details.Exception != nil && details.Exception.Description != "" {
		message = details.Exception.Description
	}

	source := details.URL
	if source == "" {
		source = "N/A"
	}

	return ConsoleIssue{
		Level:     LevelSevere,
		Message:   message,
		Source:    source,
		Timestamp: issueTimestamp(ev.Timestamp),
	}
}

func consoleCallIssue(ev *runtime.EventConsoleAPICalled) ConsoleIssue {
	parts := make([]string, 0, len(ev.Args))
	for _, arg := range ev.Args {
		if text := formatRemoteObject(arg); text != "" {
			parts = append(parts, text)
		}
	}

	source := "N/A"
	if ev.StackTrace != nil && len(ev.StackTrace.CallFrames) > 0 && ev.StackTrace.CallFrames[0].URL != "" {
		source = ev.StackTrace.CallFrames[0].URL
	}

	return ConsoleIssue{
		Level:     LevelSevere,
		Message:   strings.Join(parts, " "),
		Source:    source,
		Timestamp: issueTimestamp(ev.Timestamp),
	}
}

func formatRemoteObject(obj *runtime.RemoteObject) string {
	if obj == nil {
		return ""
	}
	if obj.Type == runtime.TypeString && len(obj.Value) > 0 {
		var text string
		if err := json.Unmarshal(obj.Value, &text); err == nil {
			return text
		}
	}
	if len(obj.Value) > 0 {
		return string(obj.Value)
	}
	return obj.Description
}

func issueTimestamp(ts *runtime.Timestamp) int64 {
	if ts == nil {
		return 0
	}
	return ts.Time().UnixMilli()
}
