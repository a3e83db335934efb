package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"incorporation-portal/internal/domain/failure"
	"incorporation-portal/internal/domain/session"
	"incorporation-portal/internal/domain/user"
	"incorporation-portal/internal/infrastructure/metrics"
	"incorporation-portal/internal/infrastructure/token"
	"incorporation-portal/pkg/id"
	"incorporation-portal/pkg/search"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is in bytes; bcrypt rejects longer input.
	MaxPasswordLength = 72
)

// Tokens signs and verifies session tokens.
type Tokens interface {
	Issue(sessionID, userID string, ttl time.Duration) (string, time.Time, error)
	Parse(raw string) (token.Claims, error)
}

type Usecase struct {
	users    user.Repository
	sessions session.Store
	tokens   Tokens
	ttl      time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
	cost     int
	compare  func(hash, password []byte) error

	dummyOnce sync.Once
	dummy     []byte
}

func NewUsecase(users user.Repository, sessions session.Store, tokens Tokens, ttl time.Duration, m *metrics.Metrics) *Usecase {
	return &Usecase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
		metrics:  m,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
		compare:  bcrypt.CompareHashAndPassword,
	}
}

// WithHashCost sets the bcrypt cost; tests use bcrypt.MinCost.
func (u *Usecase) WithHashCost(cost int) *Usecase {
	u.cost = cost
	return u
}

// Register creates a user account with role user and starts a session.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	const op = "auth.Register"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = user.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, failure.Newf(failure.KindValidation, op, "name, email and password are required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, failure.Newf(failure.KindValidation, op, "passwords do not match")
	}
	if err := checkPassword(op, in.Password); err != nil {
		return nil, err
	}

	_, err := u.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, failure.Newf(failure.KindEmailInUse, op, "email already registered")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, failure.FromStore(op, err)
	}

	usr, err := u.create(ctx, in.Name, in.Email, in.Phone, in.Company, in.Password, user.RoleUser)
	if err != nil {
		return nil, failure.FromStore(op, err)
	}
	return u.start(ctx, op, usr)
}

// Login checks the credentials and starts a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*Result, error) {
	const op = "auth.Login"

	email := user.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, failure.Newf(failure.KindValidation, op, "email and password are required")
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// same bcrypt work as a known account
		_ = u.compare(u.dummyHash(), []byte(in.Password))
		u.metrics.Login(string(failure.KindWrongCredential))
		return nil, failure.Newf(failure.KindWrongCredential, op, "unknown email")
	}
	if err != nil {
		return nil, failure.FromStore(op, err)
	}
	if err := u.compare([]byte(usr.PasswordHash), []byte(in.Password)); err != nil {
		u.metrics.Login(string(failure.KindWrongCredential))
		return nil, failure.New(failure.KindWrongCredential, op, err)
	}

	u.metrics.Login("ok")
	return u.start(ctx, op, usr)
}

// Logout deletes the session named by raw. The token stops working at once.
func (u *Usecase) Logout(ctx context.Context, raw string) error {
	const op = "auth.Logout"
	claims, err := u.tokens.Parse(raw)
	if err != nil {
		return failure.New(failure.KindUnauthenticated, op, err)
	}
	if err := u.sessions.Delete(ctx, claims.SessionID()); err != nil {
		return failure.FromStore(op, err)
	}
	return nil
}

// Authenticate turns a bearer token into a session. The session must still
// exist server-side and its role is re-read from the user record, so a role
// change or logout takes effect on the next request.
func (u *Usecase) Authenticate(ctx context.Context, raw string) (session.Session, error) {
	const op = "auth.Authenticate"
	if strings.TrimSpace(raw) == "" {
		return session.Session{}, failure.Newf(failure.KindUnauthenticated, op, "missing token")
	}
	claims, err := u.tokens.Parse(raw)
	if err != nil {
		return session.Session{}, failure.New(failure.KindUnauthenticated, op, err)
	}

	s, err := u.sessions.Load(ctx, claims.SessionID())
	if errors.Is(err, session.ErrSessionNotFound) {
		return session.Session{}, failure.New(failure.KindUnauthenticated, op, err)
	}
	if err != nil {
		return session.Session{}, failure.FromStore(op, err)
	}
	if s.UserID != claims.UserID() || s.Expired(u.now()) {
		return session.Session{}, failure.Newf(failure.KindUnauthenticated, op, "session mismatch or expired")
	}

	usr, err := u.users.GetByUID(ctx, s.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Session{}, failure.New(failure.KindUnauthenticated, op, err)
	}
	if err != nil {
		return session.Session{}, failure.FromStore(op, err)
	}
	if !usr.Role.Valid() {
		return session.Session{}, failure.Newf(failure.KindUnauthenticated, op, "account has unknown role "+string(usr.Role))
	}
	s.Role = usr.Role
	s.Email = usr.Email
	s.Authenticated = true
	return s, nil
}

// Me returns the caller's account.
func (u *Usecase) Me(ctx context.Context) (*UserDTO, error) {
	const op = "auth.Me"
	s, err := session.Require(ctx, op)
	if err != nil {
		return nil, err
	}
	usr, err := u.users.GetByUID(ctx, s.UserID)
	if err != nil {
		return nil, failure.FromStore(op, err)
	}
	dto := toDTO(usr)
	return &dto, nil
}

// ListUsers returns the accounts whose name, email or company contains query,
// newest first. An empty query lists everyone. Admin only.
func (u *Usecase) ListUsers(ctx context.Context, query string) ([]UserDTO, error) {
	const op = "auth.ListUsers"
	if _, err := session.RequireAdmin(ctx, op); err != nil {
		return nil, err
	}
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, failure.FromStore(op, err)
	}
	term := search.Term(query)
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		if !users[i].Matches(term) {
			continue
		}
		out = append(out, toDTO(&users[i]))
	}
	return out, nil
}

// EnsureAdmin creates the admin account if it does not exist yet. It reports
// whether an account was created.
func (u *Usecase) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	const op = "auth.EnsureAdmin"
	email = user.NormalizeEmail(email)
	if email == "" {
		return false, failure.Newf(failure.KindValidation, op, "admin email is required")
	}

	existing, err := u.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != user.RoleAdmin {
			return false, failure.Newf(failure.KindEmailInUse, op, "email belongs to a non-admin account")
		}
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, failure.FromStore(op, err)
	}

	if err := checkPassword(op, password); err != nil {
		return false, err
	}
	if _, err := u.create(ctx, "Administrator", email, "", "", password, user.RoleAdmin); err != nil {
		return false, failure.FromStore(op, err)
	}
	return true, nil
}

func checkPassword(op, password string) error {
	if len(password) < MinPasswordLength {
		return failure.Newf(failure.KindWeakPassword, op, "password too short")
	}
	if len(password) > MaxPasswordLength {
		return failure.Newf(failure.KindValidation, op, "password longer than 72 bytes")
	}
	return nil
}

func (u *Usecase) dummyHash() []byte {
	u.dummyOnce.Do(func() {
		u.dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), u.cost)
	})
	return u.dummy
}

func (u *Usecase) create(ctx context.Context, name, email, phone, company, password string, role user.Role) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	usr := &user.User{
		UID:          uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		Company:      strings.TrimSpace(company),
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    u.now().UTC(),
	}
	if err := u.users.Create(ctx, usr); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, failure.New(failure.KindEmailInUse, "create user", err)
		}
		return nil, errors.Wrap(err, "create user")
	}
	return usr, nil
}

func (u *Usecase) start(ctx context.Context, op string, usr *user.User) (*Result, error) {
	sid := id.NewID32()
	raw, exp, err := u.tokens.Issue(sid, usr.UID, u.ttl)
	if err != nil {
		return nil, failure.New(failure.KindUnknown, op, err)
	}
	s := session.Session{
		ID:            sid,
		UserID:        usr.UID,
		Email:         usr.Email,
		Role:          usr.Role,
		Authenticated: true,
		ExpiresAt:     exp,
	}
	if err := u.sessions.Save(ctx, s, u.ttl); err != nil {
		return nil, failure.FromStore(op, err)
	}
	return &Result{
		Token:     raw,
		ExpiresAt: exp,
		Session:   s,
		User:      toDTO(usr),
		Redirect:  session.DashboardFor(usr.Role),
	}, nil
}
