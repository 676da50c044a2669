package shop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"CartStore/internal/catalog"
)

type storeFeature struct {
	store   *Store
	results []catalog.Item
	err     error
}

func (f *storeFeature) reset() {
	f.store = nil
	f.results = nil
	f.err = nil
}

func (f *storeFeature) theCatalog(table *godog.Table) error {
	items := make([]catalog.Item, 0, len(table.Rows))
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		price, err := strconv.ParseInt(row.Cells[1].Value, 10, 64)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		items = append(items, catalog.NewItem(row.Cells[0].Value, price, splitList(row.Cells[2].Value), ""))
	}
	f.store = New(items)
	return nil
}

func (f *storeFeature) iAdd(fragment string) error {
	_, f.err = f.store.AddItem(fragment)
	return nil
}

func (f *storeFeature) theCartHolds(fragment string) error {
	if _, err := f.store.AddItem(fragment); err != nil {
		return fmt.Errorf("setup add %q: %w", fragment, err)
	}
	return nil
}

func (f *storeFeature) iRemove(fragment string) error {
	_, f.err = f.store.RemoveItem(fragment)
	return nil
}

func (f *storeFeature) iSearchForHashtag(tag string) error {
	f.results = f.store.SearchByHashtag(tag)
	return nil
}

func (f *storeFeature) iSearchForName(fragment string) error {
	f.results = f.store.SearchByName(fragment)
	return nil
}

func (f *storeFeature) theResultsAre(want string) error {
	return sameNames("results", splitList(want), f.results)
}

func (f *storeFeature) theCartContains(want string) error {
	return sameNames("cart", splitList(want), f.store.Cart())
}

func (f *storeFeature) theCartIsEmpty() error {
	return sameNames("cart", nil, f.store.Cart())
}

func (f *storeFeature) theOperationFailsWith(kind string) error {
	want := map[string]error{
		"not found":        catalog.ErrNotFound,
		"already exists":   catalog.ErrAlreadyExists,
		"too many matches": catalog.ErrTooManyMatches,
	}[kind]
	if want == nil {
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if !errors.Is(f.err, want) {
		return fmt.Errorf("expected %v, got %v", want, f.err)
	}
	return nil
}

func (f *storeFeature) theCheckoutTotalIs(total int64) error {
	if got := f.store.Checkout(); got != total {
		return fmt.Errorf("checkout=%d want=%d", got, total)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sameNames(what string, want []string, items []catalog.Item) error {
	got := catalog.Names(items)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		return fmt.Errorf("%s=%v want=%v", what, got, want)
	}
	return nil
}

func initializeStoreScenario(ctx *godog.ScenarioContext) {
	f := &storeFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})

	ctx.Step(`^the catalog:$`, f.theCatalog)
	ctx.Step(`^the cart holds "([^"]*)"$`, f.theCartHolds)
	ctx.Step(`^I add "([^"]*)" to the cart$`, f.iAdd)
	ctx.Step(`^I remove "([^"]*)" from the cart$`, f.iRemove)
	ctx.Step(`^I search for hashtag "([^"]*)"$`, f.iSearchForHashtag)
	ctx.Step(`^I search for name "([^"]*)"$`, f.iSearchForName)
	ctx.Step(`^the results are "([^"]*)"$`, f.theResultsAre)
	ctx.Step(`^the cart contains "([^"]*)"$`, f.theCartContains)
	ctx.Step(`^the cart is empty$`, f.theCartIsEmpty)
	ctx.Step(`^the operation fails with "([^"]*)"$`, f.theOperationFailsWith)
	ctx.Step(`^the checkout total is (\d+)$`, f.theCheckoutTotalIs)
}

func TestStoreFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeStoreScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
