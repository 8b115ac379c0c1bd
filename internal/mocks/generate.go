// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the backend ports. The mocks are generated using go:generate directives and
// provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	directory := mocks.NewMockCustomerDirectory(ctrl)
//	directory.EXPECT().Title(gomock.Any(), "cust-1").Return("Acme Supply Co", nil)
package mocks

// Generate mocks for the business data backend ports.
// This creates MockCustomerDirectory and MockOrderReader.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/target/shopfront-ui-api/internal/ports CustomerDirectory,OrderReader

// Generate mock for the CacheRepository interface.
// This creates MockCacheRepository with Set, Get and Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_mock.go github.com/target/shopfront-ui-api/internal/ports CacheRepository
