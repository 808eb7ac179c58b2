package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/model"
	"github.com/Veraticus/kahvi/internal/service"
)

// FakeSource is an in-memory service.DataSource. Setting Err makes every call
// fail with it; per-product histories missing from Histories yield
// common.ErrNotFound. It is safe for concurrent use.
type FakeSource struct {
	Err         error
	WelcomeMsg  *model.Welcome
	EndpointsV  *model.EndpointList
	Histories   map[string][]model.PriceObservation
	CoffeeList  []model.Coffee
	ProductList []model.ProductSummary

	mu    sync.Mutex
	calls map[string]int
}

var _ service.DataSource = (*FakeSource)(nil)

// NewFakeSource returns a source serving the sample fixtures.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		WelcomeMsg:  &model.Welcome{Message: "Hello, welcome to tonnon-kahvi version 0.1!"},
		EndpointsV:  SampleEndpoints(),
		CoffeeList:  SampleCoffees(),
		ProductList: SampleProducts(),
		Histories: map[string][]model.PriceObservation{
			"1": SampleHistory(),
		},
	}
}

// Calls returns how often method was invoked.
func (f *FakeSource) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// SetErr changes the failure returned by every call.
func (f *FakeSource) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

func (f *FakeSource) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
	return f.Err
}

// Welcome implements service.DataSource.
func (f *FakeSource) Welcome(_ context.Context) (*model.Welcome, error) {
	if err := f.record("Welcome"); err != nil {
		return nil, err
	}
	return f.WelcomeMsg, nil
}

// Endpoints implements service.DataSource.
func (f *FakeSource) Endpoints(_ context.Context) (*model.EndpointList, error) {
	if err := f.record("Endpoints"); err != nil {
		return nil, err
	}
	return f.EndpointsV, nil
}

// Coffees implements service.DataSource.
func (f *FakeSource) Coffees(_ context.Context) ([]model.Coffee, error) {
	if err := f.record("Coffees"); err != nil {
		return nil, err
	}
	return f.CoffeeList, nil
}

// Products implements service.DataSource.
func (f *FakeSource) Products(_ context.Context) ([]model.ProductSummary, error) {
	if err := f.record("Products"); err != nil {
		return nil, err
	}
	return f.ProductList, nil
}

// History implements service.DataSource.
func (f *FakeSource) History(_ context.Context, productID string) ([]model.PriceObservation, error) {
	if err := f.record("History"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	history, ok := f.Histories[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, common.ErrNotFound)
	}
	return history, nil
}
