package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/bookkeep/library-records/internal/core/domain"
)

var memberColumns = []interface{}{"id", "name", "email", "hashed_password", "joined_date", "role"}

type memberRepository struct {
	q querier
	d *Store
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	members := []domain.Member{}
	ds := r.d.dialect.From(tableMembers).Select(memberColumns...).Order(goqu.C("id").Asc()).Prepared(true)
	if err := selectAll(ctx, r.q, &members, ds); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	for i := range members {
		members[i].JoinedDate = members[i].JoinedDate.UTC()
	}
	return members, nil
}

func (r *memberRepository) FindByID(ctx context.Context, id int64) (*domain.Member, error) {
	return r.findOne(ctx, goqu.Ex{"id": id})
}

// FindByName returns the oldest member with the given name. Names are not
// unique.
func (r *memberRepository) FindByName(ctx context.Context, name string) (*domain.Member, error) {
	return r.findOne(ctx, goqu.Ex{"name": name})
}

func (r *memberRepository) findOne(ctx context.Context, where goqu.Ex) (*domain.Member, error) {
	ds := r.d.dialect.From(tableMembers).
		Select(memberColumns...).
		Where(where).
		Order(goqu.C("id").Asc()).
		Limit(1).
		Prepared(true)

	var m domain.Member
	if err := getOne(ctx, r.q, &m, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	m.JoinedDate = m.JoinedDate.UTC()
	return &m, nil
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	rec := memberRecord(m)
	rec["hashed_password"] = m.PasswordHash
	rec["role"] = m.Role

	id, err := r.d.insert(ctx, r.q, tableMembers, rec)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert member: %w", err)
	}
	m.ID = id
	return nil
}

// Update writes the profile fields. Credentials and role are left alone.
func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	ds := r.d.dialect.Update(tableMembers).Set(memberRecord(m)).Where(goqu.C("id").Eq(m.ID)).Prepared(true)
	if _, err := execute(ctx, r.q, ds); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update member %d: %w", m.ID, err)
	}
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id int64) error {
	ok, err := r.d.deleteByID(ctx, r.q, tableMembers, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrMemberInUse
		}
		return fmt.Errorf("delete member %d: %w", id, err)
	}
	if !ok {
		return domain.ErrMemberNotFound
	}
	return nil
}

func memberRecord(m *domain.Member) goqu.Record {
	return goqu.Record{
		"name":        m.Name,
		"email":       m.Email,
		"joined_date": m.JoinedDate.UTC(),
	}
}
