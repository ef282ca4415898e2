package mocks

import (
	"context"
	"errors"
)

// MockGenerationService is a mock implementation of GenerationService for testing
type MockGenerationService struct {
	response string
	failNext bool

	// Calls records the number of Generate invocations
	Calls int

	// LastQuery and LastContext capture the most recent Generate arguments
	LastQuery   string
	LastContext string
}

// NewMockGenerationService creates a new MockGenerationService
func NewMockGenerationService() *MockGenerationService {
	return &MockGenerationService{
		response: "mock answer",
	}
}

func (m *MockGenerationService) Generate(ctx context.Context, query, contextText string) (string, error) {
	m.Calls++
	m.LastQuery = query
	m.LastContext = contextText

	if m.failNext {
		m.failNext = false
		return "", errors.New("generation backend unavailable")
	}
	return m.response, nil
}

func (m *MockGenerationService) Model() string {
	return "mock-generation-model"
}

func (m *MockGenerationService) Ping(ctx context.Context) error {
	return nil
}

func (m *MockGenerationService) Close() error {
	return nil
}

// Helper methods for testing

func (m *MockGenerationService) SetResponse(response string) {
	m.response = response
}

func (m *MockGenerationService) SetFailNext(fail bool) {
	m.failNext = fail
}
