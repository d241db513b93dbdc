package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jengzang/safeguard-backend/internal/geocoder"
	"github.com/jengzang/safeguard-backend/internal/llm"
	"github.com/jengzang/safeguard-backend/internal/models"
)

// --- Mocks for Dependencies ---

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateWithContact(ctx context.Context, user *models.User, contact *models.TrustedContact) error {
	args := m.Called(ctx, user, contact)
	return args.Error(0)
}
func (m *MockUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserStore) ExistsByAadhar(ctx context.Context, aadhar string) (bool, error) {
	args := m.Called(ctx, aadhar)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserStore) SetVerified(ctx context.Context, id string, verified bool) error {
	args := m.Called(ctx, id, verified)
	return args.Error(0)
}

type MockContactStore struct {
	mock.Mock
}

func (m *MockContactStore) Create(ctx context.Context, contact *models.TrustedContact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}
func (m *MockContactStore) ListByUser(ctx context.Context, userID string) ([]models.TrustedContact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrustedContact), args.Error(1)
}
func (m *MockContactStore) GetByID(ctx context.Context, userID, id string) (*models.TrustedContact, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrustedContact), args.Error(1)
}
func (m *MockContactStore) Update(ctx context.Context, contact *models.TrustedContact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}
func (m *MockContactStore) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockSOSStore struct {
	mock.Mock
}

func (m *MockSOSStore) Create(ctx context.Context, alert *models.SOSAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockSOSStore) ListByUser(ctx context.Context, userID string, limit uint64) ([]models.SOSAlert, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SOSAlert), args.Error(1)
}

type MockPollStore struct {
	mock.Mock
}

func (m *MockPollStore) Create(ctx context.Context, poll *models.PollRecord) error {
	args := m.Called(ctx, poll)
	return args.Error(0)
}
func (m *MockPollStore) AddVote(ctx context.Context, id string, isSafe bool, comment string, now time.Time) error {
	args := m.Called(ctx, id, isSafe, comment, now)
	return args.Error(0)
}
func (m *MockPollStore) GetByID(ctx context.Context, id string) (*models.PollRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PollRecord), args.Error(1)
}
func (m *MockPollStore) FindLatestInCell(ctx context.Context, cellToken string, since time.Time) (*models.PollRecord, error) {
	args := m.Called(ctx, cellToken, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PollRecord), args.Error(1)
}
func (m *MockPollStore) List(ctx context.Context) ([]models.PollRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PollRecord), args.Error(1)
}

type MockNewsStore struct {
	mock.Mock
}

func (m *MockNewsStore) Create(ctx context.Context, news *models.NewsRecord) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}
func (m *MockNewsStore) NewsSince(ctx context.Context, since time.Time) ([]models.NewsRecord, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NewsRecord), args.Error(1)
}

type MockVerificationStore struct {
	mock.Mock
}

func (m *MockVerificationStore) Create(ctx context.Context, v *models.Verification) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVerificationStore) LatestByUser(ctx context.Context, userID string) (*models.Verification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Verification), args.Error(1)
}

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) Send(ctx context.Context, numbers []string, message string) error {
	args := m.Called(ctx, numbers, message)
	return args.Error(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, locality string) (*geocoder.Result, error) {
	args := m.Called(ctx, locality)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocoder.Result), args.Error(1)
}

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}
