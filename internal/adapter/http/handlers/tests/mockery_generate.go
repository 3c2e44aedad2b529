package tests

// Mock generation example for handler tests.
//
// Usage:
//   go generate ./internal/adapter/http/handlers/tests
//
//go:generate mockery --name SessionService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename session_service_mock.go --with-expecter
//go:generate mockery --name AssistantService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename assistant_service_mock.go --with-expecter
//go:generate mockery --name Dashboard --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename dashboard_mock.go --with-expecter
