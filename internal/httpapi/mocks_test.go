package httpapi

import (
	"context"

	"dbs-store/internal/auth"
	"dbs-store/internal/cart"
	"dbs-store/internal/order"
	"dbs-store/internal/product"
	"dbs-store/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListByCategory(ctx context.Context, categoryID string, filters product.Filters) ([]product.Product, error) {
	args := m.Called(ctx, categoryID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) GetDetail(ctx context.Context, slug string) (*product.Detail, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Detail), args.Error(1)
}

func (m *MockProductService) ListPromo(ctx context.Context, limit int) ([]product.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, cartID string) (cart.View, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, cartID, productID string) (cart.View, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (cart.View, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, cartID, productID string) (cart.View, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, cartID string) error {
	return m.Called(ctx, cartID).Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, customer *order.Customer, input order.CheckoutInput) (*order.CreateResult, error) {
	args := m.Called(ctx, customer, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CreateResult), args.Error(1)
}

func (m *MockOrderService) ListForUser(ctx context.Context, customer *order.Customer) ([]order.Order, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) GetForUser(ctx context.Context, customer *order.Customer, orderID string) (*order.Order, error) {
	args := m.Called(ctx, customer, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context, filter order.ListFilter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID string, status order.Status) error {
	return m.Called(ctx, orderID, status).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Profile), args.Error(1)
}

func (m *MockUserService) UpdateName(ctx context.Context, userID, name string) (*user.Profile, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Profile), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) signedIn(args mock.Arguments) (*auth.SignedIn, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.SignedIn), args.Error(1)
}

func (m *MockAuthService) SignUp(ctx context.Context, name, email, password string, meta auth.RequestMeta) (*auth.SignedIn, error) {
	return m.signedIn(m.Called(ctx, name, email, password, meta))
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string, meta auth.RequestMeta) (*auth.SignedIn, error) {
	return m.signedIn(m.Called(ctx, email, password, meta))
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) GetSession(ctx context.Context, token string) (*auth.SessionWithUser, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.SessionWithUser), args.Error(1)
}

func (m *MockAuthService) SendVerificationOTP(ctx context.Context, email string, otpType auth.OTPType) error {
	return m.Called(ctx, email, otpType).Error(0)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, email, otp string) (*user.User, error) {
	args := m.Called(ctx, email, otp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockAuthService) SignInWithOTP(ctx context.Context, email, otp string, meta auth.RequestMeta) (*auth.SignedIn, error) {
	return m.signedIn(m.Called(ctx, email, otp, meta))
}

func (m *MockAuthService) ForgetPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) CheckResetOTP(ctx context.Context, email, otp string) (auth.ResetCheck, error) {
	args := m.Called(ctx, email, otp)
	return args.Get(0).(auth.ResetCheck), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, otp, password string) error {
	return m.Called(ctx, email, otp, password).Error(0)
}

func (m *MockAuthService) ListOrganizations(ctx context.Context, userID string) ([]auth.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]auth.Organization), args.Error(1)
}

func (m *MockAuthService) ListOrganizationsForToken(ctx context.Context, token string) ([]auth.Organization, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]auth.Organization), args.Error(1)
}

func (m *MockAuthService) StoreRole(ctx context.Context, userID string) (auth.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(auth.Role), args.Error(1)
}

func (m *MockAuthService) SocialProviders() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockAuthService) SocialAuthURL(provider, state string) (string, error) {
	args := m.Called(provider, state)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) SocialCallback(ctx context.Context, provider, code string, meta auth.RequestMeta) (*auth.SignedIn, error) {
	return m.signedIn(m.Called(ctx, provider, code, meta))
}
