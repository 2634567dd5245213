package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

// MemberService implements member CRUD. Credentials are managed by AuthService.
type MemberService struct {
	store  ports.Store
	clock  Clock
	logger zerolog.Logger
}

func NewMemberService(store ports.Store, logger zerolog.Logger) *MemberService {
	return &MemberService{store: store, clock: realClock{}, logger: logger}
}

func (s *MemberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer closeSession(sess, s.logger)

	return sess.Members().List(ctx)
}

func (s *MemberService) GetMember(ctx context.Context, id int64) (*domain.Member, error) {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	defer closeSession(sess, s.logger)

	return sess.Members().FindByID(ctx, id)
}

func (s *MemberService) CreateMember(ctx context.Context, input ports.MemberInput) (*domain.Member, error) {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	defer closeSession(sess, s.logger)

	member := &domain.Member{
		Name:       normalizeName(input.Name),
		Email:      input.Email,
		JoinedDate: s.clock.Now(),
		Role:       domain.RoleMember,
	}
	if input.JoinedDate != nil {
		member.JoinedDate = input.JoinedDate.UTC()
	}

	if err := sess.Members().Create(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("member_id", member.ID).Msg("member created")
	return member, nil
}

// UpdateMember replaces name and email. An omitted joined date keeps the
// stored one; password and role are never touched here.
func (s *MemberService) UpdateMember(ctx context.Context, id int64, input ports.MemberInput) error {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	defer closeSession(sess, s.logger)

	return sess.WithinTx(ctx, func(ctx context.Context, tx ports.Session) error {
		member, err := tx.Members().FindByID(ctx, id)
		if err != nil {
			return err
		}
		member.Name = normalizeName(input.Name)
		member.Email = input.Email
		if input.JoinedDate != nil {
			member.JoinedDate = input.JoinedDate.UTC()
		}
		return tx.Members().Update(ctx, member)
	})
}

func (s *MemberService) DeleteMember(ctx context.Context, id int64) error {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	defer closeSession(sess, s.logger)

	err = sess.WithinTx(ctx, func(ctx context.Context, tx ports.Session) error {
		if _, err := tx.Members().FindByID(ctx, id); err != nil {
			return err
		}
		n, err := tx.Borrows().CountByMember(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrMemberInUse
		}
		return tx.Members().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("member_id", id).Msg("member deleted")
	return nil
}
