package auth

import (
	"context"
	"sync"

	"dbs-store/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, id, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

func (m *MockUserRepository) FindByAccount(ctx context.Context, provider, providerAccountID string) (*user.User, error) {
	args := m.Called(ctx, provider, providerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) LinkAccount(ctx context.Context, userID, provider, providerAccountID string) error {
	return m.Called(ctx, userID, provider, providerAccountID).Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionRepository) DeleteForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) ListForUser(ctx context.Context, userID string) ([]Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Create(ctx context.Context, name, slug string) (*Organization, error) {
	args := m.Called(ctx, name, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Organization), args.Error(1)
}

func (m *MockOrganizationRepository) AddMember(ctx context.Context, orgID, userID string, role Role) error {
	return m.Called(ctx, orgID, userID, role).Error(0)
}

// recordingMailer keeps the last code sent per address.
type recordingMailer struct {
	mu   sync.Mutex
	sent map[string]string
	err  error
}

func (r *recordingMailer) SendOTP(_ context.Context, to, otp string, _ OTPType) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = map[string]string{}
	}
	r.sent[to] = otp
	return nil
}

func (r *recordingMailer) last(to string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[to]
}

// memoryVerifications is an in-memory VerificationRepository.
type memoryVerifications struct {
	mu    sync.Mutex
	rows  map[string]Verification
	swaps int

	// readers, when set, holds every Get until that many readers arrived.
	readers *sync.WaitGroup
	pending int
}

func newMemoryVerifications() *memoryVerifications {
	return &memoryVerifications{rows: map[string]Verification{}}
}

func (m *memoryVerifications) Upsert(_ context.Context, v Verification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[v.Identifier] = v
	return nil
}

func (m *memoryVerifications) Get(_ context.Context, identifier string) (*Verification, error) {
	if wg := m.waitReaders(); wg != nil {
		wg.Done()
		wg.Wait()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[identifier]
	if !ok {
		return nil, ErrVerificationNotFound
	}
	return &v, nil
}

// waitReaders hands out the reader barrier once per reader, then disarms it.
func (m *memoryVerifications) waitReaders() *sync.WaitGroup {
	m.mu.Lock()
	defer m.mu.Unlock()
	wg := m.readers
	if wg == nil {
		return nil
	}
	m.pending--
	if m.pending == 0 {
		m.readers = nil
	}
	return wg
}

func (m *memoryVerifications) SwapValue(_ context.Context, identifier, old, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[identifier]
	if !ok || v.Value != old {
		return false, nil
	}
	v.Value = value
	m.rows[identifier] = v
	m.swaps++
	return true, nil
}

func (m *memoryVerifications) DeleteValue(_ context.Context, identifier, old string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[identifier]
	if !ok || v.Value != old {
		return false, nil
	}
	delete(m.rows, identifier)
	return true, nil
}

func (m *memoryVerifications) Delete(_ context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, identifier)
	return nil
}
