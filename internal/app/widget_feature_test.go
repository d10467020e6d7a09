package app

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/zenquote/internal/adapters/storage/memory"
	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/mocks"
)

// featureContext holds state shared across step definitions within a scenario.
type featureContext struct {
	t         *testing.T
	kv        *memory.Store
	generator *mocks.MockQuoteGenerator
	bookmarks *BookmarkStore
	widget    *Widget
	snapshot  Snapshot
}

func (fc *featureContext) reset() {
	fc.kv = memory.New()
	fc.generator = mocks.NewMockQuoteGenerator(fc.t)
	fc.build()
}

func (fc *featureContext) build() {
	fc.bookmarks = NewBookmarkStore(BookmarkStoreConfig{Store: fc.kv, Logger: discardLogger()})
	fc.bookmarks.Load(context.Background())

	provider := NewQuoteProvider(QuoteProviderConfig{Generator: fc.generator, Logger: discardLogger()})
	fc.widget = NewWidget(WidgetConfig{Provider: provider, Bookmarks: fc.bookmarks, Logger: discardLogger()})
}

func (fc *featureContext) theQuoteServiceIsUnavailable() error {
	fc.generator.EXPECT().Generate(mock.Anything, mock.Anything).
		Return(nil, domain.NewUnavailableError("gemini", "503 Service Unavailable")).Maybe()

	return nil
}

func (fc *featureContext) theBookmarks(first, second string) error {
	for _, text := range []string{first, second} {
		q, err := domain.NewQuote(text, "Seed", time.Now())
		if err != nil {
			return err
		}

		if _, err := fc.bookmarks.Add(context.Background(), q); err != nil {
			return err
		}
	}

	return nil
}

func (fc *featureContext) iSelectTheCategory(name string) error {
	c, err := domain.ParseCategory(name)
	if err != nil {
		return err
	}

	fc.snapshot = fc.widget.SetCategory(context.Background(), c)

	return nil
}

func (fc *featureContext) theWidgetShowsAFallbackQuote() error {
	if fc.snapshot.Quote == nil {
		return fmt.Errorf("widget shows no quote")
	}

	if !isFallback(fc.snapshot.Quote) {
		return fmt.Errorf("quote %q is not in the fallback list", fc.snapshot.Quote.Text)
	}

	return nil
}

func (fc *featureContext) theWidgetIsNotLoading() error {
	if fc.snapshot.Loading {
		return fmt.Errorf("widget is still loading")
	}

	return nil
}

func (fc *featureContext) iToggleTheBookmark() error {
	s, err := fc.widget.ToggleBookmark(context.Background())
	fc.snapshot = s

	return err
}

func (fc *featureContext) theCurrentQuoteIsBookmarkOf(position, total int) error {
	all := fc.bookmarks.All()
	if len(all) != total {
		return fmt.Errorf("expected %d bookmarks, got %d", total, len(all))
	}

	if all[position-1].Text != fc.snapshot.Quote.Text {
		return fmt.Errorf("bookmark %d is %q, want %q", position, all[position-1].Text, fc.snapshot.Quote.Text)
	}

	return nil
}

func (fc *featureContext) theBookmarksAre(first, second string) error {
	got := texts(fc.bookmarks.All())
	want := []string{first, second}

	if fmt.Sprint(got) != fmt.Sprint(want) {
		return fmt.Errorf("bookmarks are %q, want %q", got, want)
	}

	return nil
}

func (fc *featureContext) theWidgetRestarts() error {
	current := fc.snapshot.Quote
	fc.build()
	fc.snapshot = Snapshot{Quote: current}

	return nil
}

func (fc *featureContext) theCurrentQuoteIsStillBookmarked() error {
	if !fc.bookmarks.Contains(fc.snapshot.Quote.Text) {
		return fmt.Errorf("%q is not bookmarked after restart", fc.snapshot.Quote.Text)
	}

	return nil
}

func initializeWidgetScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(sc *godog.ScenarioContext) {
		fc := &featureContext{t: t}

		sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
			fc.reset()
			return ctx, nil
		})

		sc.Step(`^the quote service is unavailable$`, fc.theQuoteServiceIsUnavailable)
		sc.Step(`^the bookmarks "([^"]*)" and "([^"]*)"$`, fc.theBookmarks)
		sc.Step(`^I select the category "([^"]*)"$`, fc.iSelectTheCategory)
		sc.Step(`^the widget shows a fallback quote$`, fc.theWidgetShowsAFallbackQuote)
		sc.Step(`^the widget is not loading$`, fc.theWidgetIsNotLoading)
		sc.Step(`^I toggle the bookmark$`, fc.iToggleTheBookmark)
		sc.Step(`^the current quote is bookmark (\d+) of (\d+)$`, fc.theCurrentQuoteIsBookmarkOf)
		sc.Step(`^the bookmarks are "([^"]*)" and "([^"]*)"$`, fc.theBookmarksAre)
		sc.Step(`^the widget restarts$`, fc.theWidgetRestarts)
		sc.Step(`^the current quote is still bookmarked$`, fc.theCurrentQuoteIsStillBookmarked)
	}
}

// TestFeatures runs the GoDog BDD scenarios against the in-process widget.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeWidgetScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
