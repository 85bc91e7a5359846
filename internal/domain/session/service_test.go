package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"alfup/internal/domain/alfresco"
)

// MockStore is a mock implementation of the Store interface for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockAPI is a mock implementation of the API interface for testing
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Login(ctx context.Context, username, password string) (*alfresco.Envelope, error) {
	args := m.Called(ctx, username, password)
	if env := args.Get(0); env != nil {
		return env.(*alfresco.Envelope), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) ValidateTicket(ctx context.Context, ticket string) (*alfresco.Envelope, error) {
	args := m.Called(ctx, ticket)
	if env := args.Get(0); env != nil {
		return env.(*alfresco.Envelope), args.Error(1)
	}
	return nil, args.Error(1)
}

func entryEnvelope(id string) *alfresco.Envelope {
	return &alfresco.Envelope{Entry: &alfresco.Entry{ID: id}}
}

func errorEnvelope(summary string) *alfresco.Envelope {
	return &alfresco.Envelope{Error: &alfresco.APIError{BriefSummary: summary}}
}

func storedRecord(t *testing.T, rec *AuthRecord) string {
	t.Helper()
	value, err := rec.Marshal()
	require.NoError(t, err)
	return value
}

func TestService_EnsureValidTicket_TicketStillValid(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	store.On("Get", mock.Anything, AuthKey).
		Return(storedRecord(t, &AuthRecord{Username: "alice", Password: "secret", Ticket: "TKT1"}), nil)
	api.On("ValidateTicket", mock.Anything, "TKT1").Return(entryEnvelope("TKT1"), nil)

	ok, err := service.EnsureValidTicket(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	// The cached ticket is untouched and no login happens
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
	api.AssertExpectations(t)
}

func TestService_EnsureValidTicket_ExpiredTicketRenewsOnce(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	var saved []string
	store.On("Get", mock.Anything, AuthKey).
		Return(storedRecord(t, &AuthRecord{Username: "alice", Password: "secret", Ticket: "TKT1"}), nil)
	store.On("Set", mock.Anything, AuthKey, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.String(2))
		}).Return(nil)

	api.On("ValidateTicket", mock.Anything, "TKT1").Return(errorEnvelope("ticket expired"), nil)
	api.On("Login", mock.Anything, "alice", "secret").Return(entryEnvelope("TKT2"), nil).Once()

	ok, err := service.EnsureValidTicket(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	// Stored record ends up as {alice, secret, TKT2}
	require.NotEmpty(t, saved)
	var rec AuthRecord
	require.NoError(t, json.Unmarshal([]byte(saved[len(saved)-1]), &rec))
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, "secret", rec.Password)
	assert.Equal(t, "TKT2", rec.Ticket)

	api.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestService_EnsureValidTicket_RenewalRejected(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	store.On("Get", mock.Anything, AuthKey).
		Return(storedRecord(t, &AuthRecord{Username: "alice", Password: "wrong", Ticket: "TKT1"}), nil)
	store.On("Set", mock.Anything, AuthKey, mock.AnythingOfType("string")).Return(nil)
	api.On("ValidateTicket", mock.Anything, "TKT1").Return(errorEnvelope("ticket expired"), nil)
	api.On("Login", mock.Anything, "alice", "wrong").Return(errorEnvelope("Login failed"), nil).Once()

	ok, err := service.EnsureValidTicket(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	api.AssertExpectations(t)
}

func TestService_EnsureValidTicket_NoCredentials(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{
			name:   "empty store",
			stored: "",
		},
		{
			name:   "username only",
			stored: `{"username":"alice"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			api := new(MockAPI)
			service := NewService(store, api, slog.Default())

			store.On("Get", mock.Anything, AuthKey).Return(tt.stored, nil)

			ok, err := service.EnsureValidTicket(context.Background())
			require.NoError(t, err)
			assert.False(t, ok)

			// Without credentials no login call may be made
			api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_EnsureValidTicket_TransportErrorPropagates(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	store.On("Get", mock.Anything, AuthKey).
		Return(storedRecord(t, &AuthRecord{Username: "alice", Password: "secret", Ticket: "TKT1"}), nil)
	api.On("ValidateTicket", mock.Anything, "TKT1").
		Return(nil, alfresco.ErrTransport)

	// A network failure must not be treated as an invalid ticket
	_, err := service.EnsureValidTicket(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, alfresco.ErrTransport))
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Login(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	var saved string
	store.On("Set", mock.Anything, AuthKey, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			saved = args.String(2)
		}).Return(nil)
	api.On("Login", mock.Anything, "alice", "secret").Return(entryEnvelope("TKT1"), nil)

	err := service.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	var rec AuthRecord
	require.NoError(t, json.Unmarshal([]byte(saved), &rec))
	assert.Equal(t, AuthRecord{Username: "alice", Password: "secret", Ticket: "TKT1"}, rec)
}

func TestService_Login_Rejected(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	api.On("Login", mock.Anything, "alice", "oops").Return(errorEnvelope("Login failed"), nil)

	err := service.Login(context.Background(), "alice", "oops")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.Contains(t, err.Error(), "Login failed")
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Logout_Soft(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	var saved string
	store.On("Get", mock.Anything, AuthKey).
		Return(storedRecord(t, &AuthRecord{Username: "alice", Password: "secret", Ticket: "TKT1"}), nil)
	store.On("Set", mock.Anything, AuthKey, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			saved = args.String(2)
		}).Return(nil)

	require.NoError(t, service.Logout(context.Background(), false))

	// Username survives, ticket and password do not
	var rec AuthRecord
	require.NoError(t, json.Unmarshal([]byte(saved), &rec))
	assert.Equal(t, "alice", rec.Username)
	assert.Empty(t, rec.Password)
	assert.Empty(t, rec.Ticket)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_Logout_ClearAll(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	store.On("Delete", mock.Anything, AuthKey).Return(nil)

	require.NoError(t, service.Logout(context.Background(), true))
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Ticket(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	store.On("Get", mock.Anything, AuthKey).
		Return(storedRecord(t, &AuthRecord{Username: "alice", Password: "secret", Ticket: "TKT2"}), nil)
	api.On("ValidateTicket", mock.Anything, "TKT2").Return(entryEnvelope("TKT2"), nil)

	ticket, err := service.Ticket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TKT2", ticket)
}

func TestService_Ticket_NoSession(t *testing.T) {
	store := new(MockStore)
	api := new(MockAPI)
	service := NewService(store, api, slog.Default())

	store.On("Get", mock.Anything, AuthKey).Return("", nil)

	_, err := service.Ticket(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSession))
}
