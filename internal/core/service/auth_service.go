package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

// DefaultTokenTTL is the lifetime of an issued access token.
const DefaultTokenTTL = 20 * time.Minute

const tokenTypeBearer = "bearer"

// AuthConfig carries the token and hashing settings.
type AuthConfig struct {
	Secret     string
	Algorithm  string // HS256, HS384 or HS512
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	store     ports.Store
	audit     ports.AuditRepository
	secret    []byte
	method    *jwt.SigningMethodHMAC
	tokenTTL  time.Duration
	cost      int
	dummyHash []byte
	clock     Clock
	ids       IDGen
	logger    zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithAuthClock replaces the wall clock used for issuing and verifying tokens.
func WithAuthClock(c Clock) AuthOption {
	return func(s *AuthService) { s.clock = c }
}

// WithAuthAudit records registrations in the given audit repository.
func WithAuthAudit(a ports.AuditRepository) AuthOption {
	return func(s *AuthService) {
		if a != nil {
			s.audit = a
		}
	}
}

func NewAuthService(store ports.Store, cfg AuthConfig, logger zerolog.Logger, opts ...AuthOption) (*AuthService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", alg)
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	// Compared against when the member does not exist, so both failure paths
	// pay for one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("no-such-member"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	s := &AuthService{
		store:     store,
		audit:     nopAudit{},
		secret:    []byte(cfg.Secret),
		method:    method,
		tokenTTL:  cfg.TokenTTL,
		cost:      cfg.BcryptCost,
		dummyHash: dummy,
		clock:     realClock{},
		ids:       ulidGen{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Member, error) {
	name := normalizeName(in.Name)
	if name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := in.Role
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleMember && role != domain.RoleAdmin {
		return nil, domain.ErrInvalidCredentials
	}

	if len(in.Password) > domain.MaxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	defer closeSession(sess, s.logger)

	member := &domain.Member{
		Name:         name,
		Email:        in.Email,
		PasswordHash: string(hash),
		JoinedDate:   s.clock.Now(),
		Role:         role,
	}
	if err := sess.Members().Create(ctx, member); err != nil {
		return nil, err
	}

	event := &domain.AuditEvent{
		Type:       domain.AuditMemberRegistered,
		MemberID:   member.ID,
		OccurredAt: member.JoinedDate,
		Detail:     map[string]string{"role": role},
	}
	if err := s.audit.Insert(ctx, event); err != nil {
		s.logger.Warn().Err(err).Int64("member_id", member.ID).Msg("failed to insert audit event")
	}

	s.logger.Info().Int64("member_id", member.ID).Str("role", role).Msg("member registered")
	return member, nil
}

// Login looks the member up by name. An unknown name and a wrong password
// both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.TokenResult, error) {
	username = normalizeName(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	defer closeSession(sess, s.logger)

	member, err := sess.Members().FindByName(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	// Members created through plain member CRUD have no password and cannot log in.
	if member.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(member)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	return &ports.TokenResult{AccessToken: token, TokenType: tokenTypeBearer}, nil
}

// VerifyToken checks signature, algorithm and expiry and extracts the
// subject and member id.
func (s *AuthService) VerifyToken(token string) (*ports.Principal, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	id, ok := claims["id"].(float64)
	if sub == "" || !ok {
		return nil, domain.ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return &ports.Principal{MemberID: int64(id), Name: sub, Role: role}, nil
}

func (s *AuthService) generateToken(m *domain.Member) (string, error) {
	jti, err := s.ids.New()
	if err != nil {
		return "", err
	}

	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":  m.Name,
		"id":   m.ID,
		"role": m.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
		"jti":  jti,
	}

	t := jwt.NewWithClaims(s.method, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("jti", jti).Int64("member_id", m.ID).Msg("token issued")
	return signed, nil
}
